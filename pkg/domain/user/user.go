// Package user contains the user entity and its invariants.
//
// Users form a referral forest: UplineID points at the referring user and is
// set exactly once at registration, so the structure is acyclic by
// construction. Balance is the single source of truth for spendable funds and
// is mutated only through the ledger service.
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/money"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUplineNotFound is returned when a referral code resolves to no user.
	ErrUplineNotFound = errors.New("upline not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// User represents a platform member.
type User struct {
	ID           uuid.UUID
	Email        string
	Balance      money.Money
	UplineID     *uuid.UUID
	ReferralCode string
	CreatedAt    time.Time
}

// NewReferralCode derives a short shareable referral code from a UUID.
func NewReferralCode(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
