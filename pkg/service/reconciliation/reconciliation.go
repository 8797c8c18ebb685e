// Package reconciliation detects and corrects balance drift by replaying
// transaction history. RunFull recomputes every user's balance from the
// COMPLETED ledger rows and repairs the stored value when it drifted past
// the epsilon; DiagnoseChain pinpoints the exact transaction where the
// running-balance chain first broke, without writing anything.
package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/money"
	"github.com/investra/platform/pkg/repository"
)

// epsilon is the tolerated stored/computed divergence: one cent, the legacy
// 0.01-currency threshold.
const epsilonCents = int64(1)

// Discrepancy reports one repaired balance.
type Discrepancy struct {
	UserID     uuid.UUID   `json:"userId"`
	Email      string      `json:"email"`
	Stored     money.Money `json:"-"`
	Computed   money.Money `json:"-"`
	StoredF    float64     `json:"current"`
	ComputedF  float64     `json:"calculated"`
	Difference float64     `json:"difference"`
}

// ChainBreak identifies the transaction at which the running balance stopped
// matching the recorded previous-balance snapshot.
type ChainBreak struct {
	TransactionID   uuid.UUID `json:"transactionId"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpectedPrevF   float64   `json:"expectedPrevBalance"`
	ActualPrevF     float64   `json:"actualPrevBalance"`
	GapF            float64   `json:"gap"`
}

// ChainReport is the outcome of a chain diagnosis for one user.
type ChainReport struct {
	UserID            uuid.UUID    `json:"userId"`
	Email             string       `json:"email"`
	TotalTransactions int          `json:"totalTransactions"`
	Breaks            []ChainBreak `json:"chainBreakIssues"`
}

// Service is the reconciliation engine.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a reconciliation service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// RunFull recomputes and repairs every user's balance. Per-user failures are
// logged and skipped so one corrupt history does not block the sweep. Only
// the live balance is ever written; historical transaction rows are never
// touched, even when a past credit is judged incorrect.
func (s *Service) RunFull(ctx context.Context) ([]Discrepancy, error) {
	var users []*dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		users, err = repo.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	findings := make([]Discrepancy, 0)
	for _, u := range users {
		d, err := s.reconcileUser(ctx, u)
		if err != nil {
			s.logger.Error("reconciliation failed for user", "userID", u.ID, "error", err)
			continue
		}
		if d != nil {
			findings = append(findings, *d)
		}
	}
	s.logger.Info("full reconciliation finished", "users", len(users), "repaired", len(findings))
	return findings, nil
}

// reconcileUser folds the type-sign table over the user's COMPLETED rows
// from zero, compares to the stored balance and repairs it when the drift
// exceeds the epsilon. The read and the repair share one unit of work so the
// fold cannot race a concurrent mutation of the same balance.
func (s *Service) reconcileUser(ctx context.Context, u *dto.UserRead) (*Discrepancy, error) {
	var finding *Discrepancy
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err := txRepo.ListCompletedByUser(ctx, u.ID)
		if err != nil {
			return err
		}

		computed := money.Zero
		for _, tx := range txs {
			delta, err := ledgerdomain.Delta(
				ledgerdomain.TxType(tx.Type),
				ledgerdomain.Mode(tx.Mode),
				money.FromCents(tx.AmountCents),
			)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", tx.ID, err)
			}
			computed = computed.Add(delta)
		}

		stored := money.FromCents(u.BalanceCents)
		diff := stored.Sub(computed)
		if diff.Abs().Cents() <= epsilonCents {
			return nil
		}

		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := users.UpdateBalance(ctx, u.ID, computed.Cents()); err != nil {
			return fmt.Errorf("repair balance: %w", err)
		}
		finding = &Discrepancy{
			UserID:     u.ID,
			Email:      u.Email,
			Stored:     stored,
			Computed:   computed,
			StoredF:    stored.Float(),
			ComputedF:  computed.Float(),
			Difference: diff.Float(),
		}
		s.logger.Warn("balance repaired",
			"userID", u.ID, "email", u.Email,
			"stored", stored, "computed", computed, "difference", diff)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finding, nil
}

// DiagnoseChain walks the user's COMPLETED rows chronologically and compares
// the running expected balance against each row's recorded previous-balance
// snapshot. After each row it advances to that row's recorded new balance,
// trusting the ledger's own record, so one broken link does not cascade
// false positives onto every later row. Read-only: findings are left for
// operator judgment since the diagnosis cannot tell which divergent value is
// the true one.
func (s *Service) DiagnoseChain(ctx context.Context, userID uuid.UUID) (*ChainReport, error) {
	var report *ChainReport
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err := txRepo.ListCompletedByUser(ctx, userID)
		if err != nil {
			return err
		}

		report = &ChainReport{
			UserID:            u.ID,
			Email:             u.Email,
			TotalTransactions: len(txs),
			Breaks:            []ChainBreak{},
		}
		expected := money.Zero
		for _, tx := range txs {
			actualPrev := money.FromCents(tx.PreviousBalanceCents)
			gap := actualPrev.Sub(expected)
			if gap.Abs().Cents() > epsilonCents {
				report.Breaks = append(report.Breaks, ChainBreak{
					TransactionID: tx.ID,
					Type:          tx.Type,
					Description:   tx.Description,
					CreatedAt:     tx.CreatedAt,
					ExpectedPrevF: expected.Float(),
					ActualPrevF:   actualPrev.Float(),
					GapF:          gap.Float(),
				})
			}
			expected = money.FromCents(tx.NewBalanceCents)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
