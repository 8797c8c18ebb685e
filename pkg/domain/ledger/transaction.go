// Package ledger contains the append-only transaction ledger entities: the
// transaction row with its before/after balance snapshots and the type-sign
// table that fixes how each transaction type moves a balance.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/money"
)

// Transaction is an immutable ledger row. Amount is always a positive
// magnitude; the balance effect is implied by Type and Mode. PreviousBalance
// and NewBalance snapshot the owner's balance around the application of this
// row, which is what makes chain diagnosis possible.
type Transaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Type            TxType
	Mode            Mode
	Amount          money.Money
	PreviousBalance money.Money
	NewBalance      money.Money
	Status          TxStatus
	Description     string
	Reference       *string    // external payment reference, unique when set
	ReferenceID     *uuid.UUID // investment that caused this row
	CreatedAt       time.Time
}
