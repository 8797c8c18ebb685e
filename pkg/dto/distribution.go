package dto

import (
	"time"

	"github.com/google/uuid"
)

// DistributionLogRead is a read-optimized DTO for idempotency-log lookups.
type DistributionLogRead struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	InvestmentID uuid.UUID
	Date         string
	TriggerType  string
	AmountCents  int64
	CreatedAt    time.Time
}

// DistributionLogCreate is a DTO for writing an idempotency-log row.
type DistributionLogCreate struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	InvestmentID uuid.UUID
	Date         string
	TriggerType  string
	AmountCents  int64
}
