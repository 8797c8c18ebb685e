// Package provider defines the external collaborator interfaces the ledger
// core depends on.
package provider

import (
	"context"

	"github.com/investra/platform/pkg/money"
)

// Verification is the outcome of an external payment lookup. A not-valid
// outcome is not an error: it downgrades the intake to PENDING for manual
// review. Transport and upstream failures surface through Verify's error
// return instead.
type Verification struct {
	Valid  bool
	Amount money.Money
	Reason string
}

// PaymentVerifier checks an external on-chain transfer against the expected
// recipient and minimum amount. Implementations must reject malformed
// references and enforce a minimum-confirmation threshold; replay protection
// for already-used references is handled by the ledger, not here.
type PaymentVerifier interface {
	Verify(ctx context.Context, txRef, expectedRecipient string, minAmount money.Money) (*Verification, error)
}
