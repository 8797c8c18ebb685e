package ledger

import (
	"fmt"

	"github.com/investra/platform/pkg/money"
)

// TxType classifies a ledger row.
type TxType string

const (
	TypeDeposit    TxType = "DEPOSIT"
	TypeInvestment TxType = "INVESTMENT"
	TypeROI        TxType = "ROI"
	TypeCommission TxType = "COMMISSION"
	TypeWithdrawal TxType = "WITHDRAWAL"
	TypeFee        TxType = "FEE"
)

// Mode disambiguates deposit semantics. The legacy system inferred this from
// description text; it is a first-class column here so the type-sign table
// and the reconciliation fold key on the same discriminator.
type Mode string

const (
	ModeNone    Mode = ""
	ModeWallet  Mode = "WALLET"
	ModePackage Mode = "PACKAGE"
)

// TxStatus is the settlement state of a ledger row. Only COMPLETED rows
// participate in the balance chain.
type TxStatus string

const (
	StatusPending   TxStatus = "PENDING"
	StatusCompleted TxStatus = "COMPLETED"
	// StatusRejected marks a PENDING intake refused on manual review. The
	// marker row is audit history and never enters the balance chain.
	StatusRejected TxStatus = "REJECTED"
)

// Delta returns the signed balance effect of a transaction per the type-sign
// table:
//
//	ROI, COMMISSION           +amount
//	DEPOSIT (wallet mode)     +amount
//	DEPOSIT (package mode)    0       (money lives in the investment)
//	INVESTMENT, WITHDRAWAL    -amount
//	FEE                       -amount
func Delta(t TxType, mode Mode, amount money.Money) (money.Money, error) {
	switch t {
	case TypeROI, TypeCommission:
		return amount, nil
	case TypeDeposit:
		if mode == ModePackage {
			return money.Zero, nil
		}
		return amount, nil
	case TypeInvestment, TypeWithdrawal, TypeFee:
		return amount.Neg(), nil
	default:
		return money.Zero, fmt.Errorf("%w: %q", ErrUnknownTxType, t)
	}
}
