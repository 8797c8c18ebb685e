// Package common holds the response envelope, RFC 9457 problem details and
// request binding shared by all webapi handlers.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	investmentdomain "github.com/investra/platform/pkg/domain/investment"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	userdomain "github.com/investra/platform/pkg/domain/user"
	"github.com/investra/platform/pkg/service/intake"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes an RFC 9457 problem response. The status is
// derived from the error unless an explicit one is given.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, status ...int) error {
	code := ErrorToStatusCode(err)
	if len(status) > 0 {
		code = status[0]
	}
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   code,
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(code).JSON(pd)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, investmentdomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrTransactionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, intake.ErrUnsupportedRail),
		errors.Is(err, userdomain.ErrUplineNotFound):
		return fiber.StatusBadRequest
	case errors.Is(err, ledgerdomain.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ledgerdomain.ErrDuplicateReference),
		errors.Is(err, userdomain.ErrEmailTaken),
		errors.Is(err, investmentdomain.ErrInvalidTransition),
		errors.Is(err, ledgerdomain.ErrNotPendingDeposit),
		errors.Is(err, ledgerdomain.ErrAlreadySettled):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it with
// go-playground/validator. On failure the error response is already written
// and nil is returned.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}
