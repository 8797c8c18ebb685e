package reconciliation_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/investra/platform/internal/fixtures/fakes"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	reconsvc "github.com/investra/platform/pkg/service/reconciliation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTx(uow *fakes.Uow, userID uuid.UUID, typ ledgerdomain.TxType, mode ledgerdomain.Mode, amount, prev, next int64) uuid.UUID {
	id := uuid.New()
	uow.Transactions.Seed(dto.TransactionRead{
		ID:                   id,
		UserID:               userID,
		Type:                 string(typ),
		Mode:                 string(mode),
		AmountCents:          amount,
		PreviousBalanceCents: prev,
		NewBalanceCents:      next,
		Status:               string(ledgerdomain.StatusCompleted),
	})
	return id
}

func TestRunFull_RepairsDriftedBalance(t *testing.T) {
	uow := fakes.NewUow()
	userID := uuid.New()
	// History sums to 850.00 but the stored balance says 1000.00.
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "drift@example.com", BalanceCents: 100_000, ReferralCode: "DRIF0001"})
	seedTx(uow, userID, ledgerdomain.TypeDeposit, ledgerdomain.ModeWallet, 100_000, 0, 100_000)
	seedTx(uow, userID, ledgerdomain.TypeWithdrawal, ledgerdomain.ModeNone, 15_000, 100_000, 85_000)

	svc := reconsvc.NewService(uow, slog.Default())
	findings, err := svc.RunFull(context.Background())
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, userID, findings[0].UserID)
	assert.Equal(t, float64(1000), findings[0].StoredF)
	assert.Equal(t, float64(850), findings[0].ComputedF)
	assert.Equal(t, float64(150), findings[0].Difference)
	assert.Equal(t, int64(85_000), uow.Users.Balance(userID), "stored balance rewritten to the computed value")
}

func TestRunFull_WithinEpsilonIsLeftAlone(t *testing.T) {
	uow := fakes.NewUow()
	userID := uuid.New()
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "close@example.com", BalanceCents: 10_001, ReferralCode: "CLOS0001"})
	seedTx(uow, userID, ledgerdomain.TypeDeposit, ledgerdomain.ModeWallet, 10_000, 0, 10_000)

	svc := reconsvc.NewService(uow, slog.Default())
	findings, err := svc.RunFull(context.Background())
	require.NoError(t, err)

	assert.Empty(t, findings)
	assert.Equal(t, int64(10_001), uow.Users.Balance(userID))
}

func TestRunFull_PendingRowsExcludedFromFold(t *testing.T) {
	uow := fakes.NewUow()
	userID := uuid.New()
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "pending@example.com", BalanceCents: 10_000, ReferralCode: "PEND0001"})
	seedTx(uow, userID, ledgerdomain.TypeDeposit, ledgerdomain.ModeWallet, 10_000, 0, 10_000)
	uow.Transactions.Seed(dto.TransactionRead{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        string(ledgerdomain.TypeDeposit),
		Mode:        string(ledgerdomain.ModeWallet),
		AmountCents: 50_000,
		Status:      string(ledgerdomain.StatusPending),
	})
	uow.Transactions.Seed(dto.TransactionRead{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        string(ledgerdomain.TypeDeposit),
		Mode:        string(ledgerdomain.ModeWallet),
		AmountCents: 20_000,
		Status:      string(ledgerdomain.StatusRejected),
	})

	svc := reconsvc.NewService(uow, slog.Default())
	findings, err := svc.RunFull(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRunFull_PackageDepositIsBalanceNeutralInFold(t *testing.T) {
	uow := fakes.NewUow()
	userID := uuid.New()
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "pkg@example.com", BalanceCents: 0, ReferralCode: "PKGG0001"})
	seedTx(uow, userID, ledgerdomain.TypeDeposit, ledgerdomain.ModePackage, 50_000, 0, 0)

	svc := reconsvc.NewService(uow, slog.Default())
	findings, err := svc.RunFull(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Zero(t, uow.Users.Balance(userID))
}

func TestDiagnoseChain_PinpointsBreakWithoutWriting(t *testing.T) {
	uow := fakes.NewUow()
	userID := uuid.New()
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "broken@example.com", BalanceCents: 42_000, ReferralCode: "BROK0001"})

	seedTx(uow, userID, ledgerdomain.TypeDeposit, ledgerdomain.ModeWallet, 10_000, 0, 10_000)
	// Snapshot gap: previous balance recorded as 12_000 instead of 10_000.
	brokenID := seedTx(uow, userID, ledgerdomain.TypeROI, ledgerdomain.ModeNone, 1_000, 12_000, 13_000)
	// Consistent with the prior row's recorded new balance, so no second break.
	seedTx(uow, userID, ledgerdomain.TypeROI, ledgerdomain.ModeNone, 1_000, 13_000, 14_000)

	svc := reconsvc.NewService(uow, slog.Default())
	report, err := svc.DiagnoseChain(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalTransactions)
	require.Len(t, report.Breaks, 1)
	assert.Equal(t, brokenID, report.Breaks[0].TransactionID)
	assert.Equal(t, float64(100), report.Breaks[0].ExpectedPrevF)
	assert.Equal(t, float64(120), report.Breaks[0].ActualPrevF)
	assert.Equal(t, float64(20), report.Breaks[0].GapF)

	// Diagnosis never repairs.
	assert.Equal(t, int64(42_000), uow.Users.Balance(userID))
}

func TestDiagnoseChain_CleanHistoryReportsNoBreaks(t *testing.T) {
	uow := fakes.NewUow()
	userID := uuid.New()
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "clean@example.com", BalanceCents: 11_000, ReferralCode: "CLEN0001"})
	seedTx(uow, userID, ledgerdomain.TypeDeposit, ledgerdomain.ModeWallet, 10_000, 0, 10_000)
	seedTx(uow, userID, ledgerdomain.TypeROI, ledgerdomain.ModeNone, 1_000, 10_000, 11_000)

	svc := reconsvc.NewService(uow, slog.Default())
	report, err := svc.DiagnoseChain(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, report.Breaks)
}
