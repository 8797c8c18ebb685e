// Package app builds the Fiber application from initialized dependencies.
package app

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/investra/platform/pkg/config"
	"github.com/investra/platform/pkg/repository"
	distsvc "github.com/investra/platform/pkg/service/distribution"
	intakesvc "github.com/investra/platform/pkg/service/intake"
	ledgersvc "github.com/investra/platform/pkg/service/ledger"
	reconsvc "github.com/investra/platform/pkg/service/reconciliation"
	usersvc "github.com/investra/platform/pkg/service/user"
	"github.com/investra/platform/webapi/common"
	distributionapi "github.com/investra/platform/webapi/distribution"
	intakeapi "github.com/investra/platform/webapi/intake"
	reconciliationapi "github.com/investra/platform/webapi/reconciliation"
	userapi "github.com/investra/platform/webapi/user"
)

// Deps carries the initialized dependencies the app is built from.
type Deps struct {
	Config         *config.App
	Logger         *slog.Logger
	Uow            repository.UnitOfWork
	Ledger         *ledgersvc.Service
	Users          *usersvc.Service
	Intake         *intakesvc.Service
	Distribution   *distsvc.Service
	Reconciliation *reconsvc.Service
}

// New builds the Fiber app and registers all routes.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests",
				errors.New("rate limit exceeded"), fiber.StatusTooManyRequests)
		},
	}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	userapi.Routes(app, deps.Users, deps.Config)
	intakeapi.Routes(app, deps.Intake, deps.Config)
	distributionapi.Routes(app, deps.Distribution, deps.Config)
	reconciliationapi.Routes(app, deps.Reconciliation, deps.Config)
	return app
}
