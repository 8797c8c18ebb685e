// Package investment contains the investment entity and its state machine.
package investment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when an investment does not exist.
	ErrNotFound = errors.New("investment not found")
	// ErrInvalidTransition is returned on a disallowed status change.
	ErrInvalidTransition = errors.New("invalid investment status transition")
)

// Status is the investment lifecycle state.
//
// PENDING -> ACTIVE via verification or admin approval.
// PENDING -> REJECTED on failed verification.
// ACTIVE is terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusRejected Status = "REJECTED"
)

// ApprovalMethod records how an investment became (or will become) active.
type ApprovalMethod string

const (
	ApprovalAuto   ApprovalMethod = "AUTO"
	ApprovalManual ApprovalMethod = "MANUAL"
	ApprovalWallet ApprovalMethod = "WALLET"
)

// Investment represents an invested package. Amount is the principal and is
// immutable after creation.
type Investment struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Amount         money.Money
	Status         Status
	DailyRate      decimal.Decimal
	ApprovalMethod ApprovalMethod
	CreatedAt      time.Time
}

// CanTransition reports whether the status change is allowed.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusActive || to == StatusRejected
	default:
		return false
	}
}
