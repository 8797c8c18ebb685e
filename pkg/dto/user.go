// Package dto holds the read/create/update data-transfer objects used
// between services and repositories.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is a read-optimized DTO for user queries and reports.
type UserRead struct {
	ID           uuid.UUID
	Email        string
	BalanceCents int64
	UplineID     *uuid.UUID
	ReferralCode string
	CreatedAt    time.Time
}

// UserCreate is a DTO for creating a new user.
type UserCreate struct {
	ID           uuid.UUID
	Email        string
	UplineID     *uuid.UUID
	ReferralCode string
}
