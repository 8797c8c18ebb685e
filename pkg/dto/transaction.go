package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRead is a read-optimized DTO for ledger queries.
type TransactionRead struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Type                 string
	Mode                 string
	AmountCents          int64
	PreviousBalanceCents int64
	NewBalanceCents      int64
	Status               string
	Description          string
	Reference            *string
	ReferenceID          *uuid.UUID
	CreatedAt            time.Time
}

// TransactionCreate is a DTO for appending a ledger row. Rows are never
// updated or deleted after creation.
type TransactionCreate struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Type                 string
	Mode                 string
	AmountCents          int64
	PreviousBalanceCents int64
	NewBalanceCents      int64
	Status               string
	Description          string
	Reference            *string
	ReferenceID          *uuid.UUID
}
