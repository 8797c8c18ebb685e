// Package intake exposes the deposit/withdrawal endpoints.
package intake

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/investra/platform/pkg/config"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/middleware"
	"github.com/investra/platform/pkg/money"
	intakesvc "github.com/investra/platform/pkg/service/intake"
	"github.com/investra/platform/webapi/common"
)

// Routes registers the intake endpoints.
//
//   - POST /deposits                        : wallet or package deposit
//   - POST /withdrawals                     : payout request
//   - POST /admin/investments/:id/approve   : approve a pending package
//   - POST /admin/investments/:id/reject    : reject a pending package
//   - POST /admin/deposits/:id/approve      : approve a pending wallet deposit
//   - POST /admin/deposits/:id/reject       : reject a pending wallet deposit
func Routes(app *fiber.App, svc *intakesvc.Service, cfg *config.App) {
	app.Post("/deposits", middleware.JwtProtected(cfg.Auth.Jwt), Deposit(svc))
	app.Post("/withdrawals", middleware.JwtProtected(cfg.Auth.Jwt), Withdraw(svc))
	app.Post("/admin/investments/:id/approve", middleware.JwtProtected(cfg.Auth.Jwt), ApprovePackage(svc))
	app.Post("/admin/investments/:id/reject", middleware.JwtProtected(cfg.Auth.Jwt), RejectPackage(svc))
	app.Post("/admin/deposits/:id/approve", middleware.JwtProtected(cfg.Auth.Jwt), ApproveWalletDeposit(svc))
	app.Post("/admin/deposits/:id/reject", middleware.JwtProtected(cfg.Auth.Jwt), RejectWalletDeposit(svc))
}

// Deposit returns the handler for deposit intake.
func Deposit(svc *intakesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserIDFromToken(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err
		}

		mode := ledgerdomain.ModeWallet
		if strings.EqualFold(input.Mode, "package") {
			mode = ledgerdomain.ModePackage
		}
		result, err := svc.Deposit(c.Context(), intakesvc.DepositCommand{
			UserID: userID,
			Amount: money.FromFloat(input.Amount),
			Mode:   mode,
			Rail:   intakesvc.Rail(input.PaymentMethod),
			TxRef:  input.TxRef,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Deposit failed", err)
		}
		if result.Pending {
			return common.SuccessResponseJSON(c, fiber.StatusAccepted, "Deposit pending manual review", result)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit processed", result)
	}
}

// Withdraw returns the handler for payout requests.
func Withdraw(svc *intakesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserIDFromToken(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err
		}
		tx, err := svc.Withdraw(c.Context(), userID, money.FromFloat(input.Amount))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Withdrawal failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawal processed", fiber.Map{
			"transactionId": tx.ID,
			"newBalance":    money.FromCents(tx.NewBalanceCents).Float(),
		})
	}
}

// ApprovePackage returns the admin handler that activates a pending package.
func ApprovePackage(svc *intakesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid investment ID", err, fiber.StatusBadRequest)
		}
		if err := svc.ApprovePackage(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Approval failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Package approved", nil)
	}
}

// ApproveWalletDeposit returns the admin handler that settles a pending
// wallet deposit by crediting the balance.
func ApproveWalletDeposit(svc *intakesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		if err := svc.ApproveWalletDeposit(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Approval failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit approved", nil)
	}
}

// RejectWalletDeposit returns the admin handler that refuses a pending
// wallet deposit.
func RejectWalletDeposit(svc *intakesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		if err := svc.RejectWalletDeposit(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Rejection failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit rejected", nil)
	}
}

// RejectPackage returns the admin handler that rejects a pending package.
func RejectPackage(svc *intakesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid investment ID", err, fiber.StatusBadRequest)
		}
		if err := svc.RejectPackage(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Rejection failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Package rejected", nil)
	}
}
