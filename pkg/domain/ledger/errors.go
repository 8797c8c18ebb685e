package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when a ledger entry amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds is returned when a debit would overdraw a balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownTxType is returned for a transaction type outside the
	// type-sign table.
	ErrUnknownTxType = errors.New("unknown transaction type")
	// ErrDuplicateReference is returned when an external payment reference
	// was already consumed by a previous transaction.
	ErrDuplicateReference = errors.New("payment reference already used")
	// ErrTransactionNotFound is returned when a transaction does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrNotPendingDeposit is returned when a settlement targets a
	// transaction that is not a PENDING wallet-mode deposit.
	ErrNotPendingDeposit = errors.New("not a pending wallet deposit")
	// ErrAlreadySettled is returned when a PENDING deposit was already
	// approved or rejected.
	ErrAlreadySettled = errors.New("deposit already settled")
)
