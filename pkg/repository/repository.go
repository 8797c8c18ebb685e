// Package repository defines the data-access interfaces and the unit-of-work
// abstraction that gives services transaction boundaries without coupling
// them to the storage engine.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/dto"
)

// UserRepository defines user data access.
type UserRepository interface {
	Create(ctx context.Context, create dto.UserCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)
	GetByEmail(ctx context.Context, email string) (*dto.UserRead, error)
	GetByReferralCode(ctx context.Context, code string) (*dto.UserRead, error)
	// UpdateBalance overwrites the stored balance. It is called only by the
	// ledger service (inside the same unit of work as the transaction row)
	// and by reconciliation repair.
	UpdateBalance(ctx context.Context, id uuid.UUID, balanceCents int64) error
	ListAll(ctx context.Context) ([]*dto.UserRead, error)
}

// InvestmentRepository defines investment data access.
type InvestmentRepository interface {
	Create(ctx context.Context, create dto.InvestmentCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.InvestmentRead, error)
	ListActive(ctx context.Context) ([]*dto.InvestmentRead, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.InvestmentRead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// TransactionRepository defines append-only ledger data access. There is
// deliberately no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)
	// GetByReference returns (nil, nil) when no transaction carries the
	// external payment reference.
	GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error)
	// GetByReferenceID returns (nil, nil) when no transaction references the
	// given row. Settlement of a PENDING intake is detected through this.
	GetByReferenceID(ctx context.Context, referenceID uuid.UUID) (*dto.TransactionRead, error)
	// ListCompletedByUser returns COMPLETED rows in chronological order,
	// which is the order the balance chain is defined over.
	ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error)
}

// DistributionLogRepository defines idempotency-log data access.
type DistributionLogRepository interface {
	// Get returns (nil, nil) when no row exists for the key.
	Get(ctx context.Context, userID, investmentID uuid.UUID, date, triggerType string) (*dto.DistributionLogRead, error)
	Create(ctx context.Context, create dto.DistributionLogCreate) error
	// UpsertIncrement creates the row or adds AmountCents to an existing
	// row's amount. Used only by forced re-runs.
	UpsertIncrement(ctx context.Context, create dto.DistributionLogCreate) error
}
