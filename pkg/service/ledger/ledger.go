// Package ledger implements the balance mutator: the only code path that
// moves a user's balance. Every mutation persists the new balance together
// with an immutable transaction row carrying before/after snapshots inside
// one unit of work, so no partial state is ever observable.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/money"
	"github.com/investra/platform/pkg/repository"
)

// Entry describes one ledger mutation request. Amount must be positive; the
// balance effect is derived from Type and Mode via the type-sign table.
type Entry struct {
	UserID      uuid.UUID
	Type        ledgerdomain.TxType
	Mode        ledgerdomain.Mode
	Amount      money.Money
	Description string
	Reference   *string
	ReferenceID *uuid.UUID
}

// Service is the balance mutator.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a ledger service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Apply runs ApplyIn inside its own unit of work.
func (s *Service) Apply(ctx context.Context, e Entry) (tx *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err = s.ApplyIn(ctx, uow, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ApplyIn applies a COMPLETED ledger entry within an existing unit of work:
// it reads the current balance, computes the new balance from the type-sign
// table, persists the balance and appends the transaction row. Callers that
// need additional writes in the same atomic unit (e.g. the distribution
// engine's idempotency log) compose them through the same uow.
//
// The mutator is deliberately type-agnostic about business limits: checking
// for sufficient funds is the caller's job.
func (s *Service) ApplyIn(ctx context.Context, uow repository.UnitOfWork, e Entry) (*dto.TransactionRead, error) {
	if !e.Amount.IsPositive() {
		return nil, ledgerdomain.ErrInvalidAmount
	}
	delta, err := ledgerdomain.Delta(e.Type, e.Mode, e.Amount)
	if err != nil {
		return nil, err
	}

	users, err := uow.UserRepository()
	if err != nil {
		return nil, err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}

	u, err := users.Get(ctx, e.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user for ledger entry: %w", err)
	}

	previous := money.FromCents(u.BalanceCents)
	newBalance := previous.Add(delta)

	if !delta.IsZero() {
		if err := users.UpdateBalance(ctx, e.UserID, newBalance.Cents()); err != nil {
			return nil, fmt.Errorf("persist balance: %w", err)
		}
	}

	create := dto.TransactionCreate{
		ID:                   uuid.New(),
		UserID:               e.UserID,
		Type:                 string(e.Type),
		Mode:                 string(e.Mode),
		AmountCents:          e.Amount.Cents(),
		PreviousBalanceCents: previous.Cents(),
		NewBalanceCents:      newBalance.Cents(),
		Status:               string(ledgerdomain.StatusCompleted),
		Description:          e.Description,
		Reference:            e.Reference,
		ReferenceID:          e.ReferenceID,
	}
	if err := txs.Create(ctx, create); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	s.logger.Info("ledger entry applied",
		"userID", e.UserID,
		"type", e.Type,
		"amount", e.Amount,
		"previousBalance", previous,
		"newBalance", newBalance,
	)
	return readFromCreate(create), nil
}

// Record appends an audit-only transaction row with zero balance effect, in
// the given status. Used for PENDING external intakes awaiting verification
// and for zero-delta package audit rows. The balance is read for the
// snapshot but never written.
func (s *Service) Record(ctx context.Context, uow repository.UnitOfWork, e Entry, status ledgerdomain.TxStatus) (*dto.TransactionRead, error) {
	if !e.Amount.IsPositive() {
		return nil, ledgerdomain.ErrInvalidAmount
	}
	users, err := uow.UserRepository()
	if err != nil {
		return nil, err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	u, err := users.Get(ctx, e.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user for audit entry: %w", err)
	}

	create := dto.TransactionCreate{
		ID:                   uuid.New(),
		UserID:               e.UserID,
		Type:                 string(e.Type),
		Mode:                 string(e.Mode),
		AmountCents:          e.Amount.Cents(),
		PreviousBalanceCents: u.BalanceCents,
		NewBalanceCents:      u.BalanceCents,
		Status:               string(status),
		Description:          e.Description,
		Reference:            e.Reference,
		ReferenceID:          e.ReferenceID,
	}
	if err := txs.Create(ctx, create); err != nil {
		return nil, fmt.Errorf("append audit transaction: %w", err)
	}
	return readFromCreate(create), nil
}

func readFromCreate(create dto.TransactionCreate) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:                   create.ID,
		UserID:               create.UserID,
		Type:                 create.Type,
		Mode:                 create.Mode,
		AmountCents:          create.AmountCents,
		PreviousBalanceCents: create.PreviousBalanceCents,
		NewBalanceCents:      create.NewBalanceCents,
		Status:               create.Status,
		Description:          create.Description,
		Reference:            create.Reference,
		ReferenceID:          create.ReferenceID,
	}
}
