// Package distribution contains the distribution-run idempotency log and
// trigger semantics.
package distribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/money"
)

// TriggerType identifies who started a distribution run. AUTO and MANUAL are
// independent idempotency spaces: an admin catch-up run must not be
// suppressed by the scheduled run's guard, nor vice versa.
type TriggerType string

const (
	TriggerAuto   TriggerType = "AUTO"
	TriggerManual TriggerType = "MANUAL"
)

// Log is the idempotency guard row. At most one row exists per
// (UserID, InvestmentID, Date, TriggerType); a forced re-run increments
// Amount on the existing row instead of failing, so deliberate double
// credits stay audit-visible.
type Log struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	InvestmentID uuid.UUID
	Date         string // business-day key, 2006-01-02
	TriggerType  TriggerType
	Amount       money.Money
	CreatedAt    time.Time
}
