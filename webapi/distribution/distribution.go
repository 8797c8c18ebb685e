// Package distribution exposes the admin distribution-run trigger.
package distribution

import (
	"github.com/gofiber/fiber/v2"
	"github.com/investra/platform/pkg/config"
	distdomain "github.com/investra/platform/pkg/domain/distribution"
	"github.com/investra/platform/pkg/middleware"
	distsvc "github.com/investra/platform/pkg/service/distribution"
	"github.com/investra/platform/webapi/common"
)

// RunRequest is the request body for POST /admin/distribution/run. Force
// bypasses the idempotency guard and deliberately double-credits; it is an
// audited admin recovery tool, never an ordinary retry.
type RunRequest struct {
	TriggerType string `json:"triggerType" validate:"required,oneof=AUTO MANUAL"`
	Force       bool   `json:"force"`
}

// Routes registers the distribution endpoints.
func Routes(app *fiber.App, svc *distsvc.Service, cfg *config.App) {
	app.Post("/admin/distribution/run", middleware.JwtProtected(cfg.Auth.Jwt), Run(svc))
}

// Run returns the handler that executes one distribution run and reports
// its summary.
func Run(svc *distsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RunRequest](c)
		if input == nil {
			return err
		}
		summary, err := svc.Run(c.Context(), distdomain.TriggerType(input.TriggerType), input.Force)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Distribution run failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Distribution run completed", summary)
	}
}
