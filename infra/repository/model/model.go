// Package model holds the gorm persistence models shared by the repository
// implementations. Monetary columns are stored in cents (bigint).
package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record in the database.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"uniqueIndex;not null;size:255"`
	Balance      int64      `gorm:"not null"`
	UplineID     *uuid.UUID `gorm:"type:uuid;index"`
	ReferralCode string     `gorm:"uniqueIndex;not null;size:16"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string { return "users" }

// Investment represents an investment record in the database.
type Investment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount         int64     `gorm:"not null"`
	Status         string    `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	DailyRate      string    `gorm:"type:varchar(16);not null;default:'0.01'"`
	ApprovalMethod string    `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Investment model.
func (Investment) TableName() string { return "investments" }

// Transaction represents a persisted ledger row. Rows are append-only.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type            string     `gorm:"type:varchar(16);not null"`
	Mode            string     `gorm:"type:varchar(16);not null;default:''"`
	Amount          int64      `gorm:"not null"`
	PreviousBalance int64      `gorm:"not null"`
	NewBalance      int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(16);not null;default:'COMPLETED'"`
	Description     string     `gorm:"type:text"`
	Reference       *string    `gorm:"uniqueIndex;size:128"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time  `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// DistributionLog is the idempotency guard row. The composite unique index
// is the guard itself.
type DistributionLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_distribution_key"`
	InvestmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_distribution_key"`
	Date         string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_distribution_key"`
	TriggerType  string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_distribution_key"`
	Amount       int64     `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName specifies the table name for the DistributionLog model.
func (DistributionLog) TableName() string { return "distribution_logs" }
