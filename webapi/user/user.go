// Package user exposes registration and the balance/transaction read side.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/investra/platform/pkg/config"
	"github.com/investra/platform/pkg/middleware"
	"github.com/investra/platform/pkg/money"
	usersvc "github.com/investra/platform/pkg/service/user"
	"github.com/investra/platform/webapi/common"
)

// Routes registers the user endpoints.
//
//   - POST /users              : register (upline bound via referral code)
//   - GET  /users/me/balance   : current balance
//   - GET  /users/me/transactions : full ledger history
func Routes(app *fiber.App, svc *usersvc.Service, cfg *config.App) {
	app.Post("/users", Register(svc))
	app.Get("/users/me/balance", middleware.JwtProtected(cfg.Auth.Jwt), GetBalance(svc))
	app.Get("/users/me/transactions", middleware.JwtProtected(cfg.Auth.Jwt), GetTransactions(svc))
}

// Register returns the registration handler.
func Register(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := svc.Register(c.Context(), usersvc.RegisterCommand{
			Email:        input.Email,
			ReferralCode: input.ReferralCode,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Registration failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", fiber.Map{
			"id":           u.ID,
			"email":        u.Email,
			"referralCode": u.ReferralCode,
		})
	}
}

// GetBalance returns the balance read handler.
func GetBalance(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserIDFromToken(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		u, err := svc.Get(c.Context(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", fiber.Map{
			"balance": money.FromCents(u.BalanceCents).Float(),
		})
	}
}

// GetTransactions returns the ledger history handler.
func GetTransactions(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserIDFromToken(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		txs, err := svc.Transactions(c.Context(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", txs)
	}
}
