// Package mockverify provides a configurable PaymentVerifier stub for tests
// and local development.
package mockverify

import (
	"context"
	"sync"

	"github.com/investra/platform/pkg/money"
	"github.com/investra/platform/pkg/provider"
)

// Verifier is a stub PaymentVerifier. Configure Result and Err, then inspect
// Calls after exercising the intake service.
type Verifier struct {
	mu     sync.Mutex
	Result provider.Verification
	Err    error
	Calls  []Call
}

// Call records one Verify invocation.
type Call struct {
	TxRef             string
	ExpectedRecipient string
	MinAmount         money.Money
}

// New returns a stub that accepts everything with the given amount.
func New(amount money.Money) *Verifier {
	return &Verifier{Result: provider.Verification{Valid: true, Amount: amount}}
}

// Verify implements provider.PaymentVerifier.
func (v *Verifier) Verify(_ context.Context, txRef, expectedRecipient string, minAmount money.Money) (*provider.Verification, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls = append(v.Calls, Call{TxRef: txRef, ExpectedRecipient: expectedRecipient, MinAmount: minAmount})
	if v.Err != nil {
		return nil, v.Err
	}
	result := v.Result
	return &result, nil
}
