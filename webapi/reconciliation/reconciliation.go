// Package reconciliation exposes the admin balance-audit endpoints.
package reconciliation

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/investra/platform/pkg/config"
	"github.com/investra/platform/pkg/middleware"
	reconsvc "github.com/investra/platform/pkg/service/reconciliation"
	"github.com/investra/platform/webapi/common"
)

// Routes registers the reconciliation endpoints.
//
//   - POST /admin/reconciliation/run    : recompute and repair all balances
//   - GET  /admin/users/:id/chain       : read-only chain-break diagnosis
func Routes(app *fiber.App, svc *reconsvc.Service, cfg *config.App) {
	app.Post("/admin/reconciliation/run", middleware.JwtProtected(cfg.Auth.Jwt), Run(svc))
	app.Get("/admin/users/:id/chain", middleware.JwtProtected(cfg.Auth.Jwt), DiagnoseChain(svc))
}

// Run returns the handler for the full recompute-and-repair sweep.
func Run(svc *reconsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		findings, err := svc.RunFull(c.Context())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Reconciliation failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Reconciliation completed", fiber.Map{
			"repaired":      len(findings),
			"discrepancies": findings,
		})
	}
}

// DiagnoseChain returns the handler for the read-only chain diagnosis.
func DiagnoseChain(svc *reconsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, fiber.StatusBadRequest)
		}
		report, err := svc.DiagnoseChain(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Chain diagnosis failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Chain diagnosis completed", report)
	}
}
