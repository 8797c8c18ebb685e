package intake_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/investra/platform/infra/provider/mockverify"
	"github.com/investra/platform/internal/fixtures/fakes"
	"github.com/investra/platform/pkg/config"
	investmentdomain "github.com/investra/platform/pkg/domain/investment"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/money"
	intakesvc "github.com/investra/platform/pkg/service/intake"
	ledgersvc "github.com/investra/platform/pkg/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(verifier *mockverify.Verifier) (*fakes.Uow, *intakesvc.Service, uuid.UUID) {
	uow := fakes.NewUow()
	userID := uuid.New()
	uow.Users.Seed(dto.UserRead{ID: userID, Email: "alice@example.com", ReferralCode: "ALIC0001"})

	cfg := &config.ChainScan{AdminWallet: "0xadmin"}
	ledger := ledgersvc.NewService(uow, slog.Default())
	svc := intakesvc.NewService(uow, ledger, verifier, cfg, slog.Default())
	return uow, svc, userID
}

func TestDeposit_ExternalWallet_CreditsVerifiedAmount(t *testing.T) {
	verifier := mockverify.New(money.FromCents(50_000))
	uow, svc, userID := setup(verifier)

	result, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(50_000),
		Mode:   ledgerdomain.ModeWallet,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0xabc123abc123abc1",
	})
	require.NoError(t, err)

	assert.True(t, result.Verified)
	assert.False(t, result.Pending)
	assert.Equal(t, int64(50_000), uow.Users.Balance(userID))

	rows := uow.Transactions.All()
	require.Len(t, rows, 1)
	assert.Equal(t, string(ledgerdomain.TypeDeposit), rows[0].Type)
	assert.Equal(t, string(ledgerdomain.ModeWallet), rows[0].Mode)
	require.NotNil(t, rows[0].Reference)
	assert.Equal(t, "0xabc123abc123abc1", *rows[0].Reference)

	require.Len(t, verifier.Calls, 1)
	assert.Equal(t, "0xadmin", verifier.Calls[0].ExpectedRecipient)
}

func TestDeposit_ExternalPackage_ActivatesWithoutBalanceChange(t *testing.T) {
	verifier := mockverify.New(money.FromCents(50_000))
	uow, svc, userID := setup(verifier)

	result, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(50_000),
		Mode:   ledgerdomain.ModePackage,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0xdef456def456def4",
	})
	require.NoError(t, err)
	require.NotNil(t, result.InvestmentID)

	assert.Zero(t, uow.Users.Balance(userID), "package money lives in the investment")

	inv, err := uow.Investments.Get(context.Background(), *result.InvestmentID)
	require.NoError(t, err)
	assert.Equal(t, string(investmentdomain.StatusActive), inv.Status)
	assert.Equal(t, int64(50_000), inv.AmountCents)

	rows := uow.Transactions.All()
	require.Len(t, rows, 1)
	assert.Equal(t, rows[0].PreviousBalanceCents, rows[0].NewBalanceCents)
	assert.Equal(t, string(ledgerdomain.StatusCompleted), rows[0].Status)
}

func TestDeposit_FailedVerificationGoesPending(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Result.Valid = false
	verifier.Result.Reason = "recipient mismatch"
	uow, svc, userID := setup(verifier)

	result, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(30_000),
		Mode:   ledgerdomain.ModePackage,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0x1111222233334444",
	})
	require.NoError(t, err)

	assert.False(t, result.Verified)
	assert.True(t, result.Pending)
	require.NotNil(t, result.InvestmentID)
	assert.Zero(t, uow.Users.Balance(userID))

	inv, err := uow.Investments.Get(context.Background(), *result.InvestmentID)
	require.NoError(t, err)
	assert.Equal(t, string(investmentdomain.StatusPending), inv.Status)
	assert.Equal(t, string(investmentdomain.ApprovalManual), inv.ApprovalMethod)

	rows := uow.Transactions.All()
	require.Len(t, rows, 1)
	assert.Equal(t, string(ledgerdomain.StatusPending), rows[0].Status)
}

func TestDeposit_VerifierErrorGoesPending(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Err = errors.New("upstream timeout")
	uow, svc, userID := setup(verifier)

	result, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(30_000),
		Mode:   ledgerdomain.ModeWallet,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0x5555666677778888",
	})
	require.NoError(t, err, "verifier outage degrades to pending, never fails the request")
	assert.True(t, result.Pending)
	assert.Zero(t, uow.Users.Balance(userID))
}

func TestDeposit_DuplicateReferenceRejected(t *testing.T) {
	verifier := mockverify.New(money.FromCents(50_000))
	_, svc, userID := setup(verifier)
	ctx := context.Background()

	cmd := intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(50_000),
		Mode:   ledgerdomain.ModeWallet,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0x9999aaaabbbbcccc",
	}
	_, err := svc.Deposit(ctx, cmd)
	require.NoError(t, err)

	_, err = svc.Deposit(ctx, cmd)
	require.ErrorIs(t, err, ledgerdomain.ErrDuplicateReference)
	assert.Len(t, verifier.Calls, 1, "replayed reference never reaches the verifier")
}

func TestDeposit_WalletBalancePackage_DebitsAndActivates(t *testing.T) {
	uow, svc, userID := setup(mockverify.New(money.Zero))
	require.NoError(t, uow.Users.UpdateBalance(context.Background(), userID, 100_000))

	result, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(60_000),
		Mode:   ledgerdomain.ModePackage,
		Rail:   intakesvc.RailWalletBalance,
	})
	require.NoError(t, err)
	require.NotNil(t, result.InvestmentID)

	assert.Equal(t, int64(40_000), uow.Users.Balance(userID))

	inv, err := uow.Investments.Get(context.Background(), *result.InvestmentID)
	require.NoError(t, err)
	assert.Equal(t, string(investmentdomain.StatusActive), inv.Status)
	assert.Equal(t, string(investmentdomain.ApprovalWallet), inv.ApprovalMethod)

	rows := uow.Transactions.All()
	require.Len(t, rows, 1)
	assert.Equal(t, string(ledgerdomain.TypeInvestment), rows[0].Type)
}

func TestDeposit_WalletBalancePackage_InsufficientFunds(t *testing.T) {
	uow, svc, userID := setup(mockverify.New(money.Zero))

	_, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(60_000),
		Mode:   ledgerdomain.ModePackage,
		Rail:   intakesvc.RailWalletBalance,
	})
	require.ErrorIs(t, err, ledgerdomain.ErrInsufficientFunds)
	assert.Empty(t, uow.Transactions.All())
}

func TestDeposit_WalletBalanceToWalletRejected(t *testing.T) {
	_, svc, userID := setup(mockverify.New(money.Zero))

	_, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(1000),
		Mode:   ledgerdomain.ModeWallet,
		Rail:   intakesvc.RailWalletBalance,
	})
	require.ErrorIs(t, err, intakesvc.ErrUnsupportedRail)
}

func TestApprovePackage_ActivatesWithZeroDeltaAudit(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Result.Valid = false
	uow, svc, userID := setup(verifier)
	ctx := context.Background()

	result, err := svc.Deposit(ctx, intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(30_000),
		Mode:   ledgerdomain.ModePackage,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0xddddeeeeffffaaaa",
	})
	require.NoError(t, err)
	require.NotNil(t, result.InvestmentID)

	require.NoError(t, svc.ApprovePackage(ctx, *result.InvestmentID))

	inv, err := uow.Investments.Get(ctx, *result.InvestmentID)
	require.NoError(t, err)
	assert.Equal(t, string(investmentdomain.StatusActive), inv.Status)
	assert.Zero(t, uow.Users.Balance(userID), "approval never moves the balance")

	rows := uow.Transactions.All()
	require.Len(t, rows, 2)
	audit := rows[1]
	assert.Equal(t, string(ledgerdomain.StatusCompleted), audit.Status)
	assert.Equal(t, audit.PreviousBalanceCents, audit.NewBalanceCents)

	// Approving twice is an invalid transition.
	err = svc.ApprovePackage(ctx, *result.InvestmentID)
	require.ErrorIs(t, err, investmentdomain.ErrInvalidTransition)
}

func TestRejectPackage(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Result.Valid = false
	uow, svc, userID := setup(verifier)
	ctx := context.Background()

	result, err := svc.Deposit(ctx, intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(30_000),
		Mode:   ledgerdomain.ModePackage,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0xbbbbccccddddeeee",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RejectPackage(ctx, *result.InvestmentID))
	inv, err := uow.Investments.Get(ctx, *result.InvestmentID)
	require.NoError(t, err)
	assert.Equal(t, string(investmentdomain.StatusRejected), inv.Status)
}

// pendingWalletIntake runs an unverified external wallet deposit and returns
// the resulting PENDING transaction ID.
func pendingWalletIntake(t *testing.T, uow *fakes.Uow, svc *intakesvc.Service, userID uuid.UUID, ref string) uuid.UUID {
	t.Helper()
	result, err := svc.Deposit(context.Background(), intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(30_000),
		Mode:   ledgerdomain.ModeWallet,
		Rail:   intakesvc.RailExternal,
		TxRef:  ref,
	})
	require.NoError(t, err)
	require.True(t, result.Pending)

	rows := uow.Transactions.All()
	require.NotEmpty(t, rows)
	return rows[len(rows)-1].ID
}

func TestApproveWalletDeposit_CreditsBalance(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Result.Valid = false
	verifier.Result.Reason = "not yet confirmed"
	uow, svc, userID := setup(verifier)
	ctx := context.Background()

	pendingID := pendingWalletIntake(t, uow, svc, userID, "0xaaaa111122223333")
	assert.Zero(t, uow.Users.Balance(userID))

	require.NoError(t, svc.ApproveWalletDeposit(ctx, pendingID))
	assert.Equal(t, int64(30_000), uow.Users.Balance(userID))

	rows := uow.Transactions.All()
	require.Len(t, rows, 2)
	assert.Equal(t, string(ledgerdomain.StatusPending), rows[0].Status, "intake row stays as audit history")
	credit := rows[1]
	assert.Equal(t, string(ledgerdomain.StatusCompleted), credit.Status)
	assert.Equal(t, string(ledgerdomain.ModeWallet), credit.Mode)
	assert.Equal(t, int64(0), credit.PreviousBalanceCents)
	assert.Equal(t, int64(30_000), credit.NewBalanceCents)
	require.NotNil(t, credit.ReferenceID)
	assert.Equal(t, pendingID, *credit.ReferenceID)
}

func TestApproveWalletDeposit_TwiceNeverDoubleCredits(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Result.Valid = false
	uow, svc, userID := setup(verifier)
	ctx := context.Background()

	pendingID := pendingWalletIntake(t, uow, svc, userID, "0xbbbb444455556666")
	require.NoError(t, svc.ApproveWalletDeposit(ctx, pendingID))

	err := svc.ApproveWalletDeposit(ctx, pendingID)
	require.ErrorIs(t, err, ledgerdomain.ErrAlreadySettled)
	assert.Equal(t, int64(30_000), uow.Users.Balance(userID))
	assert.Len(t, uow.Transactions.All(), 2)
}

func TestRejectWalletDeposit(t *testing.T) {
	verifier := mockverify.New(money.Zero)
	verifier.Result.Valid = false
	uow, svc, userID := setup(verifier)
	ctx := context.Background()

	pendingID := pendingWalletIntake(t, uow, svc, userID, "0xcccc777788889999")

	require.NoError(t, svc.RejectWalletDeposit(ctx, pendingID))
	assert.Zero(t, uow.Users.Balance(userID))

	rows := uow.Transactions.All()
	require.Len(t, rows, 2)
	marker := rows[1]
	assert.Equal(t, string(ledgerdomain.StatusRejected), marker.Status)
	require.NotNil(t, marker.ReferenceID)
	assert.Equal(t, pendingID, *marker.ReferenceID)

	// A rejected deposit cannot be approved afterwards.
	err := svc.ApproveWalletDeposit(ctx, pendingID)
	require.ErrorIs(t, err, ledgerdomain.ErrAlreadySettled)
	assert.Zero(t, uow.Users.Balance(userID))
}

func TestApproveWalletDeposit_OnlyPendingWalletRows(t *testing.T) {
	verifier := mockverify.New(money.FromCents(50_000))
	uow, svc, userID := setup(verifier)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, intakesvc.DepositCommand{
		UserID: userID,
		Amount: money.FromCents(50_000),
		Mode:   ledgerdomain.ModeWallet,
		Rail:   intakesvc.RailExternal,
		TxRef:  "0xdddd000011112222",
	})
	require.NoError(t, err)
	completedID := uow.Transactions.All()[0].ID

	err = svc.ApproveWalletDeposit(ctx, completedID)
	require.ErrorIs(t, err, ledgerdomain.ErrNotPendingDeposit)
	assert.Equal(t, int64(50_000), uow.Users.Balance(userID))

	err = svc.ApproveWalletDeposit(ctx, uuid.New())
	require.ErrorIs(t, err, ledgerdomain.ErrTransactionNotFound)
}

func TestWithdraw(t *testing.T) {
	uow, svc, userID := setup(mockverify.New(money.Zero))
	ctx := context.Background()
	require.NoError(t, uow.Users.UpdateBalance(ctx, userID, 50_000))

	tx, err := svc.Withdraw(ctx, userID, money.FromCents(20_000))
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), tx.PreviousBalanceCents)
	assert.Equal(t, int64(30_000), tx.NewBalanceCents)
	assert.Equal(t, int64(30_000), uow.Users.Balance(userID))

	_, err = svc.Withdraw(ctx, userID, money.FromCents(40_000))
	require.ErrorIs(t, err, ledgerdomain.ErrInsufficientFunds)

	_, err = svc.Withdraw(ctx, userID, money.Zero)
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidAmount)
}
