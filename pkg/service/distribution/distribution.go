// Package distribution implements the daily ROI and commission distribution
// run. One run credits every ACTIVE investment with its daily return and
// cascades a commission to up to ten upline ancestors, guarded by the
// (user, investment, date, trigger) idempotency log.
package distribution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/config"
	distdomain "github.com/investra/platform/pkg/domain/distribution"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/money"
	"github.com/investra/platform/pkg/repository"
	"github.com/investra/platform/pkg/service/ledger"
)

// Summary reports the outcome of one distribution run.
type Summary struct {
	Processed   int                    `json:"processed"`
	Skipped     int                    `json:"skipped"`
	Failed      int                    `json:"failed"`
	Date        string                 `json:"date"`
	TriggerType distdomain.TriggerType `json:"triggerType"`
	Forced      bool                   `json:"forced"`
}

// Service orchestrates distribution runs.
type Service struct {
	uow    repository.UnitOfWork
	ledger *ledger.Service
	cfg    *config.Distribution
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a distribution service.
func NewService(uow repository.UnitOfWork, ledgerSvc *ledger.Service, cfg *config.Distribution, logger *slog.Logger) *Service {
	return &Service{
		uow:    uow,
		ledger: ledgerSvc,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run executes one distribution run. Investments are processed sequentially
// and independently: a failure on one is logged and counted, never aborts
// the run. force bypasses the idempotency guard and upsert-increments the
// log row; it is an intentional, audit-visible double-credit mechanism
// reserved for admin recovery.
func (s *Service) Run(ctx context.Context, trigger distdomain.TriggerType, force bool) (*Summary, error) {
	snap := newSnapshot(s.cfg, s.now(), s.logger)
	logger := s.logger.With("date", snap.Date, "trigger", trigger, "force", force)
	logger.Info("distribution run started")

	var investments []*dto.InvestmentRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.InvestmentRepository()
		if err != nil {
			return err
		}
		investments, err = repo.ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load active investments: %w", err)
	}

	summary := &Summary{Date: snap.Date, TriggerType: trigger, Forced: force}
	for _, inv := range investments {
		processed, err := s.processInvestment(ctx, snap, trigger, force, inv)
		if err != nil {
			summary.Failed++
			logger.Error("distribution failed for investment",
				"userID", inv.UserID, "investmentID", inv.ID, "error", err)
			continue
		}
		if processed {
			summary.Processed++
		} else {
			summary.Skipped++
		}
	}

	logger.Info("distribution run finished",
		"processed", summary.Processed, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// processInvestment credits one investment's daily return and cascades the
// commissions. Returns false when the idempotency guard skipped it.
func (s *Service) processInvestment(
	ctx context.Context,
	snap Snapshot,
	trigger distdomain.TriggerType,
	force bool,
	inv *dto.InvestmentRead,
) (bool, error) {
	if !force {
		var existing *dto.DistributionLogRead
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			logs, err := uow.DistributionLogRepository()
			if err != nil {
				return err
			}
			existing, err = logs.Get(ctx, inv.UserID, inv.ID, snap.Date, string(trigger))
			return err
		})
		if err != nil {
			return false, fmt.Errorf("idempotency lookup: %w", err)
		}
		if existing != nil {
			return false, nil
		}
	}

	// The engine rate comes from the run snapshot; the per-investment
	// DailyRate column is stored but not read here.
	roi := money.FromCents(inv.AmountCents).MulRate(snap.DailyRate)

	// ROI credit and idempotency log commit together: a user is never
	// credited without a log row, and never logged without the credit.
	investmentID := inv.ID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if roi.IsPositive() {
			_, err := s.ledger.ApplyIn(ctx, uow, ledger.Entry{
				UserID:      inv.UserID,
				Type:        ledgerdomain.TypeROI,
				Amount:      roi,
				Description: fmt.Sprintf("daily return for %s", snap.Date),
				ReferenceID: &investmentID,
			})
			if err != nil {
				return err
			}
		}
		logs, err := uow.DistributionLogRepository()
		if err != nil {
			return err
		}
		create := dto.DistributionLogCreate{
			ID:           uuid.New(),
			UserID:       inv.UserID,
			InvestmentID: inv.ID,
			Date:         snap.Date,
			TriggerType:  string(trigger),
			AmountCents:  roi.Cents(),
		}
		if force {
			return logs.UpsertIncrement(ctx, create)
		}
		return logs.Create(ctx, create)
	})
	if err != nil {
		return false, err
	}

	if force {
		s.logger.Warn("forced re-run credited investment again",
			"userID", inv.UserID, "investmentID", inv.ID, "date", snap.Date, "amount", roi)
	}

	s.cascade(ctx, snap, inv, roi)
	return true, nil
}

// cascade walks the investor's upline chain and credits each ancestor its
// level commission. The walk is a bounded parent-pointer traversal, never
// recursive, and keeps a visited set so a corrupted cyclic forest still
// terminates. Each upline credit is its own unit of work; a failure mid-walk
// logs and stops at that level (accepted partial-cascade risk, the
// investor's own credit is already committed).
func (s *Service) cascade(ctx context.Context, snap Snapshot, inv *dto.InvestmentRead, roi money.Money) {
	investor, err := s.getUser(ctx, inv.UserID)
	if err != nil {
		s.logger.Error("cascade aborted: investor lookup failed", "userID", inv.UserID, "error", err)
		return
	}

	visited := map[uuid.UUID]bool{investor.ID: true}
	uplineID := investor.UplineID
	investmentID := inv.ID

	for level := 1; level <= maxLevels && uplineID != nil; level++ {
		if visited[*uplineID] {
			s.logger.Error("cycle detected in upline chain, stopping cascade",
				"userID", inv.UserID, "uplineID", *uplineID, "level", level)
			return
		}
		visited[*uplineID] = true

		upline, err := s.getUser(ctx, *uplineID)
		if err != nil {
			s.logger.Error("cascade stopped: upline lookup failed",
				"uplineID", *uplineID, "level", level, "error", err)
			return
		}

		if level <= len(snap.LevelRates) {
			commission := roi.MulRate(snap.LevelRates[level-1])
			if commission.IsPositive() {
				_, err := s.ledger.Apply(ctx, ledger.Entry{
					UserID:      upline.ID,
					Type:        ledgerdomain.TypeCommission,
					Amount:      commission,
					Description: fmt.Sprintf("level %d commission for %s", level, snap.Date),
					ReferenceID: &investmentID,
				})
				if err != nil {
					s.logger.Error("cascade stopped: commission credit failed",
						"uplineID", upline.ID, "level", level, "error", err)
					return
				}
			}
		}

		uplineID = upline.UplineID
	}
}

func (s *Service) getUser(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u *dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, id)
		return err
	})
	return u, err
}
