package dto

import (
	"time"

	"github.com/google/uuid"
)

// InvestmentRead is a read-optimized DTO for investment queries.
type InvestmentRead struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	AmountCents    int64
	Status         string
	DailyRate      string // decimal string, e.g. "0.01"
	ApprovalMethod string
	CreatedAt      time.Time
}

// InvestmentCreate is a DTO for creating a new investment.
type InvestmentCreate struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	AmountCents    int64
	Status         string
	DailyRate      string
	ApprovalMethod string
}
