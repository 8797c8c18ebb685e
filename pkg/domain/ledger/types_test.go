package ledger_test

import (
	"testing"

	"github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelta_SignTable(t *testing.T) {
	amount := money.FromCents(1000)

	tests := []struct {
		name string
		typ  ledger.TxType
		mode ledger.Mode
		want int64
	}{
		{"roi credits", ledger.TypeROI, ledger.ModeNone, 1000},
		{"commission credits", ledger.TypeCommission, ledger.ModeNone, 1000},
		{"wallet deposit credits", ledger.TypeDeposit, ledger.ModeWallet, 1000},
		{"package deposit is balance neutral", ledger.TypeDeposit, ledger.ModePackage, 0},
		{"deposit without mode credits", ledger.TypeDeposit, ledger.ModeNone, 1000},
		{"investment debits", ledger.TypeInvestment, ledger.ModeNone, -1000},
		{"withdrawal debits", ledger.TypeWithdrawal, ledger.ModeNone, -1000},
		{"fee debits", ledger.TypeFee, ledger.ModeNone, -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.Delta(tt.typ, tt.mode, amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Cents())
		})
	}
}

func TestDelta_UnknownType(t *testing.T) {
	_, err := ledger.Delta(ledger.TxType("BONUS"), ledger.ModeNone, money.FromCents(1))
	require.ErrorIs(t, err, ledger.ErrUnknownTxType)
}
