package main

import (
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/investra/platform/app"
	"github.com/investra/platform/infra/initializer"
	"github.com/investra/platform/pkg/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	deps.Logger.Info("starting server",
		"env", cfg.Env,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	a := app.New(*deps)
	return a.Listen(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
}
