// Package initializer wires configuration into concrete dependencies: the
// logger, the database, the unit of work, the payment verifier and the
// services.
package initializer

import (
	"fmt"

	"github.com/investra/platform/app"
	"github.com/investra/platform/infra"
	infraprovider "github.com/investra/platform/infra/provider"
	infrarepository "github.com/investra/platform/infra/repository"
	"github.com/investra/platform/pkg/config"
	distsvc "github.com/investra/platform/pkg/service/distribution"
	intakesvc "github.com/investra/platform/pkg/service/intake"
	ledgersvc "github.com/investra/platform/pkg/service/ledger"
	reconsvc "github.com/investra/platform/pkg/service/reconciliation"
	usersvc "github.com/investra/platform/pkg/service/user"
)

// InitializeDependencies builds all application dependencies from config.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := setupLogger(cfg.Log)

	if cfg.DB.Migrate {
		if err := infra.RunMigrations(cfg.DB.Url, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	uow := infrarepository.NewUoW(db)
	verifier := infraprovider.NewChainScanVerifier(cfg.ChainScan, logger)

	ledgerSvc := ledgersvc.NewService(uow, logger)
	deps := &app.Deps{
		Config:         cfg,
		Logger:         logger,
		Uow:            uow,
		Ledger:         ledgerSvc,
		Users:          usersvc.NewService(uow, logger),
		Intake:         intakesvc.NewService(uow, ledgerSvc, verifier, cfg.ChainScan, logger),
		Distribution:   distsvc.NewService(uow, ledgerSvc, cfg.Distribution, logger),
		Reconciliation: reconsvc.NewService(uow, logger),
	}
	return deps, nil
}
