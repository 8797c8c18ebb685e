package reconciliation_test

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/investra/platform/internal/fixtures/fakes"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/money"
	ledgersvc "github.com/investra/platform/pkg/service/ledger"
	reconsvc "github.com/investra/platform/pkg/service/reconciliation"
)

// FuzzChainFold drives randomly generated ledger histories through the
// balance mutator and checks that the stored balance, the type-sign fold and
// the snapshot chain agree afterwards, whatever the mix of entry types.
func FuzzChainFold(f *testing.F) {
	f.Add(int64(1), uint8(5))
	f.Add(int64(42), uint8(30))
	f.Add(int64(-7), uint8(1))
	f.Add(int64(2026), uint8(200))

	entryKinds := []struct {
		txType ledgerdomain.TxType
		mode   ledgerdomain.Mode
	}{
		{ledgerdomain.TypeROI, ledgerdomain.ModeNone},
		{ledgerdomain.TypeCommission, ledgerdomain.ModeNone},
		{ledgerdomain.TypeDeposit, ledgerdomain.ModeWallet},
		{ledgerdomain.TypeDeposit, ledgerdomain.ModePackage},
		{ledgerdomain.TypeInvestment, ledgerdomain.ModeNone},
		{ledgerdomain.TypeWithdrawal, ledgerdomain.ModeNone},
		{ledgerdomain.TypeFee, ledgerdomain.ModeNone},
	}

	f.Fuzz(func(t *testing.T, seed int64, n uint8) {
		rng := rand.New(rand.NewSource(seed))
		uow := fakes.NewUow()
		userID := uuid.New()
		uow.Users.Seed(dto.UserRead{ID: userID, Email: "fold@example.com", ReferralCode: "FOLD0001"})
		mutator := ledgersvc.NewService(uow, slog.Default())

		entries := int(n)%32 + 1
		for i := 0; i < entries; i++ {
			kind := entryKinds[rng.Intn(len(entryKinds))]
			amount := money.FromCents(rng.Int63n(1_000_000) + 1)
			_, err := mutator.Apply(context.Background(), ledgersvc.Entry{
				UserID:      userID,
				Type:        kind.txType,
				Mode:        kind.mode,
				Amount:      amount,
				Description: "generated history entry",
			})
			if err != nil {
				t.Fatalf("apply entry %d: %v", i, err)
			}
		}

		svc := reconsvc.NewService(uow, slog.Default())
		findings, err := svc.RunFull(context.Background())
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if len(findings) != 0 {
			t.Errorf("mutator-written history needed repair: %+v", findings)
		}

		report, err := svc.DiagnoseChain(context.Background(), userID)
		if err != nil {
			t.Fatalf("diagnose: %v", err)
		}
		if len(report.Breaks) != 0 {
			t.Errorf("mutator-written history has chain breaks: %+v", report.Breaks)
		}
		if report.TotalTransactions != entries {
			t.Errorf("chain covers %d rows, want %d", report.TotalTransactions, entries)
		}
	})
}
