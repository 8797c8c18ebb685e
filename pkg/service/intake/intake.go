// Package intake handles deposits and withdrawals: the two deposit modes
// (wallet credit vs. package investment), the two payment rails (external
// on-chain transfer vs. internal wallet balance) and admin settlement of
// pending external deposits in both modes.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/config"
	investmentdomain "github.com/investra/platform/pkg/domain/investment"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/money"
	"github.com/investra/platform/pkg/provider"
	"github.com/investra/platform/pkg/repository"
	"github.com/investra/platform/pkg/service/ledger"
)

// Rail is the payment rail of a deposit.
type Rail string

const (
	RailExternal      Rail = "external"
	RailWalletBalance Rail = "walletBalance"
)

// ErrUnsupportedRail is returned for a mode/rail combination the platform
// does not offer (wallet-balance transfers fund packages only).
var ErrUnsupportedRail = errors.New("unsupported deposit mode/rail combination")

// DepositCommand describes one deposit request.
type DepositCommand struct {
	UserID uuid.UUID
	Amount money.Money
	Mode   ledgerdomain.Mode
	Rail   Rail
	TxRef  string
}

// DepositResult reports the intake outcome. Pending means verification
// failed or errored and the deposit awaits manual admin review.
type DepositResult struct {
	Verified     bool        `json:"verified"`
	Pending      bool        `json:"pending"`
	Amount       money.Money `json:"-"`
	AmountF      float64     `json:"amount"`
	Mode         string      `json:"mode"`
	InvestmentID *uuid.UUID  `json:"investmentId,omitempty"`
}

// Service is the deposit/withdrawal intake.
type Service struct {
	uow      repository.UnitOfWork
	ledger   *ledger.Service
	verifier provider.PaymentVerifier
	cfg      *config.ChainScan
	logger   *slog.Logger
}

// NewService creates an intake service.
func NewService(
	uow repository.UnitOfWork,
	ledgerSvc *ledger.Service,
	verifier provider.PaymentVerifier,
	cfg *config.ChainScan,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, ledger: ledgerSvc, verifier: verifier, cfg: cfg, logger: logger}
}

// Deposit processes one deposit request.
func (s *Service) Deposit(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	if !cmd.Amount.IsPositive() {
		return nil, ledgerdomain.ErrInvalidAmount
	}
	switch cmd.Rail {
	case RailWalletBalance:
		if cmd.Mode != ledgerdomain.ModePackage {
			return nil, ErrUnsupportedRail
		}
		return s.walletBalancePackage(ctx, cmd)
	case RailExternal:
		return s.externalDeposit(ctx, cmd)
	default:
		return nil, ErrUnsupportedRail
	}
}

// walletBalancePackage activates a package funded from the user's existing
// balance: the debit and the ACTIVE investment commit in one unit of work.
func (s *Service) walletBalancePackage(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	investmentID := uuid.New()
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := users.Get(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if money.FromCents(u.BalanceCents).LessThan(cmd.Amount) {
			return ledgerdomain.ErrInsufficientFunds
		}

		invRepo, err := uow.InvestmentRepository()
		if err != nil {
			return err
		}
		if err := invRepo.Create(ctx, dto.InvestmentCreate{
			ID:             investmentID,
			UserID:         cmd.UserID,
			AmountCents:    cmd.Amount.Cents(),
			Status:         string(investmentdomain.StatusActive),
			DailyRate:      "0.01",
			ApprovalMethod: string(investmentdomain.ApprovalWallet),
		}); err != nil {
			return err
		}

		_, err = s.ledger.ApplyIn(ctx, uow, ledger.Entry{
			UserID:      cmd.UserID,
			Type:        ledgerdomain.TypeInvestment,
			Amount:      cmd.Amount,
			Description: "package activated from wallet balance",
			ReferenceID: &investmentID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet-balance package activated",
		"userID", cmd.UserID, "investmentID", investmentID, "amount", cmd.Amount)
	return &DepositResult{
		Verified:     true,
		Amount:       cmd.Amount,
		AmountF:      cmd.Amount.Float(),
		Mode:         string(cmd.Mode),
		InvestmentID: &investmentID,
	}, nil
}

// externalDeposit verifies an on-chain transfer. Verified wallet deposits
// credit the balance; verified package deposits create an ACTIVE investment
// and leave the balance untouched. Verification failure downgrades the
// intake to PENDING rather than failing the request.
func (s *Service) externalDeposit(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	if cmd.Mode != ledgerdomain.ModeWallet && cmd.Mode != ledgerdomain.ModePackage {
		return nil, ErrUnsupportedRail
	}

	// Replay protection: one external reference funds at most one deposit.
	var existing *dto.TransactionRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		existing, err = txs.GetByReference(ctx, cmd.TxRef)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reference lookup: %w", err)
	}
	if existing != nil {
		return nil, ledgerdomain.ErrDuplicateReference
	}

	verification, err := s.verifier.Verify(ctx, cmd.TxRef, s.cfg.AdminWallet, cmd.Amount)
	if err != nil {
		s.logger.Warn("payment verification errored, downgrading to pending",
			"userID", cmd.UserID, "ref", cmd.TxRef, "error", err)
		return s.pendingDeposit(ctx, cmd)
	}
	if !verification.Valid {
		s.logger.Warn("payment verification failed, downgrading to pending",
			"userID", cmd.UserID, "ref", cmd.TxRef, "reason", verification.Reason)
		return s.pendingDeposit(ctx, cmd)
	}

	amount := verification.Amount
	if !amount.IsPositive() {
		amount = cmd.Amount
	}
	txRef := cmd.TxRef

	if cmd.Mode == ledgerdomain.ModeWallet {
		_, err := s.ledger.Apply(ctx, ledger.Entry{
			UserID:      cmd.UserID,
			Type:        ledgerdomain.TypeDeposit,
			Mode:        ledgerdomain.ModeWallet,
			Amount:      amount,
			Description: "wallet deposit",
			Reference:   &txRef,
		})
		if err != nil {
			return nil, err
		}
		return &DepositResult{Verified: true, Amount: amount, AmountF: amount.Float(), Mode: string(cmd.Mode)}, nil
	}

	// Package mode: the investment represents the money; the ledger row is a
	// zero-delta audit record.
	investmentID := uuid.New()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		invRepo, err := uow.InvestmentRepository()
		if err != nil {
			return err
		}
		if err := invRepo.Create(ctx, dto.InvestmentCreate{
			ID:             investmentID,
			UserID:         cmd.UserID,
			AmountCents:    amount.Cents(),
			Status:         string(investmentdomain.StatusActive),
			DailyRate:      "0.01",
			ApprovalMethod: string(investmentdomain.ApprovalAuto),
		}); err != nil {
			return err
		}
		_, err = s.ledger.ApplyIn(ctx, uow, ledger.Entry{
			UserID:      cmd.UserID,
			Type:        ledgerdomain.TypeDeposit,
			Mode:        ledgerdomain.ModePackage,
			Amount:      amount,
			Description: "package activated",
			Reference:   &txRef,
			ReferenceID: &investmentID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &DepositResult{
		Verified:     true,
		Amount:       amount,
		AmountF:      amount.Float(),
		Mode:         string(cmd.Mode),
		InvestmentID: &investmentID,
	}, nil
}

// pendingDeposit records an unverified external deposit for manual admin
// review: a PENDING transaction row and, in package mode, a PENDING
// investment. No balance is touched.
func (s *Service) pendingDeposit(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	txRef := cmd.TxRef
	var investmentID *uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var refID *uuid.UUID
		if cmd.Mode == ledgerdomain.ModePackage {
			invRepo, err := uow.InvestmentRepository()
			if err != nil {
				return err
			}
			id := uuid.New()
			if err := invRepo.Create(ctx, dto.InvestmentCreate{
				ID:             id,
				UserID:         cmd.UserID,
				AmountCents:    cmd.Amount.Cents(),
				Status:         string(investmentdomain.StatusPending),
				DailyRate:      "0.01",
				ApprovalMethod: string(investmentdomain.ApprovalManual),
			}); err != nil {
				return err
			}
			investmentID = &id
			refID = &id
		}
		_, err := s.ledger.Record(ctx, uow, ledger.Entry{
			UserID:      cmd.UserID,
			Type:        ledgerdomain.TypeDeposit,
			Mode:        cmd.Mode,
			Amount:      cmd.Amount,
			Description: "awaiting verification",
			Reference:   &txRef,
			ReferenceID: refID,
		}, ledgerdomain.StatusPending)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &DepositResult{
		Verified:     false,
		Pending:      true,
		Amount:       cmd.Amount,
		AmountF:      cmd.Amount.Float(),
		Mode:         string(cmd.Mode),
		InvestmentID: investmentID,
	}, nil
}

// ApprovePackage is the admin approval of a PENDING external package. The
// investment becomes ACTIVE and a zero-delta audit row is appended; no
// balance delta is ever applied here, the investment is the money.
func (s *Service) ApprovePackage(ctx context.Context, investmentID uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		invRepo, err := uow.InvestmentRepository()
		if err != nil {
			return err
		}
		inv, err := invRepo.Get(ctx, investmentID)
		if err != nil {
			return err
		}
		status := investmentdomain.Status(inv.Status)
		if !status.CanTransition(investmentdomain.StatusActive) {
			return fmt.Errorf("%w: %s -> ACTIVE", investmentdomain.ErrInvalidTransition, inv.Status)
		}
		if err := invRepo.UpdateStatus(ctx, investmentID, string(investmentdomain.StatusActive)); err != nil {
			return err
		}
		_, err = s.ledger.Record(ctx, uow, ledger.Entry{
			UserID:      inv.UserID,
			Type:        ledgerdomain.TypeDeposit,
			Mode:        ledgerdomain.ModePackage,
			Amount:      money.FromCents(inv.AmountCents),
			Description: "package approved by admin",
			ReferenceID: &investmentID,
		}, ledgerdomain.StatusCompleted)
		if err != nil {
			return err
		}
		s.logger.Info("pending package approved", "investmentID", investmentID, "userID", inv.UserID)
		return nil
	})
}

// RejectPackage marks a PENDING external package as rejected.
func (s *Service) RejectPackage(ctx context.Context, investmentID uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		invRepo, err := uow.InvestmentRepository()
		if err != nil {
			return err
		}
		inv, err := invRepo.Get(ctx, investmentID)
		if err != nil {
			return err
		}
		status := investmentdomain.Status(inv.Status)
		if !status.CanTransition(investmentdomain.StatusRejected) {
			return fmt.Errorf("%w: %s -> REJECTED", investmentdomain.ErrInvalidTransition, inv.Status)
		}
		return invRepo.UpdateStatus(ctx, investmentID, string(investmentdomain.StatusRejected))
	})
}

// pendingWalletDeposit loads and validates a settlement target: it must be a
// PENDING wallet-mode deposit with no prior settlement row referencing it.
func (s *Service) pendingWalletDeposit(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*dto.TransactionRead, error) {
	txs, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	tx, err := txs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Type != string(ledgerdomain.TypeDeposit) ||
		tx.Mode != string(ledgerdomain.ModeWallet) ||
		tx.Status != string(ledgerdomain.StatusPending) {
		return nil, fmt.Errorf("%w: %s/%s/%s", ledgerdomain.ErrNotPendingDeposit, tx.Type, tx.Mode, tx.Status)
	}
	settled, err := txs.GetByReferenceID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settled != nil {
		return nil, fmt.Errorf("%w: by transaction %s", ledgerdomain.ErrAlreadySettled, settled.ID)
	}
	return tx, nil
}

// ApproveWalletDeposit is the admin approval of a PENDING wallet deposit. The
// credit lands as a new COMPLETED row referencing the pending one, which is
// never mutated; that reference is also what blocks double settlement.
func (s *Service) ApproveWalletDeposit(ctx context.Context, transactionID uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		pending, err := s.pendingWalletDeposit(ctx, uow, transactionID)
		if err != nil {
			return err
		}
		_, err = s.ledger.ApplyIn(ctx, uow, ledger.Entry{
			UserID:      pending.UserID,
			Type:        ledgerdomain.TypeDeposit,
			Mode:        ledgerdomain.ModeWallet,
			Amount:      money.FromCents(pending.AmountCents),
			Description: "wallet deposit approved by admin",
			ReferenceID: &transactionID,
		})
		if err != nil {
			return err
		}
		s.logger.Info("pending wallet deposit approved",
			"transactionID", transactionID, "userID", pending.UserID)
		return nil
	})
}

// RejectWalletDeposit refuses a PENDING wallet deposit. A REJECTED marker row
// records the decision; nothing enters the balance chain.
func (s *Service) RejectWalletDeposit(ctx context.Context, transactionID uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		pending, err := s.pendingWalletDeposit(ctx, uow, transactionID)
		if err != nil {
			return err
		}
		_, err = s.ledger.Record(ctx, uow, ledger.Entry{
			UserID:      pending.UserID,
			Type:        ledgerdomain.TypeDeposit,
			Mode:        ledgerdomain.ModeWallet,
			Amount:      money.FromCents(pending.AmountCents),
			Description: "wallet deposit rejected by admin",
			ReferenceID: &transactionID,
		}, ledgerdomain.StatusRejected)
		if err != nil {
			return err
		}
		s.logger.Info("pending wallet deposit rejected",
			"transactionID", transactionID, "userID", pending.UserID)
		return nil
	})
}

// Withdraw pays out the given net amount (fees are deducted upstream). The
// sufficiency check and the debit share one unit of work.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount money.Money) (*dto.TransactionRead, error) {
	if !amount.IsPositive() {
		return nil, ledgerdomain.ErrInvalidAmount
	}
	var tx *dto.TransactionRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		if money.FromCents(u.BalanceCents).LessThan(amount) {
			return ledgerdomain.ErrInsufficientFunds
		}
		tx, err = s.ledger.ApplyIn(ctx, uow, ledger.Entry{
			UserID:      userID,
			Type:        ledgerdomain.TypeWithdrawal,
			Amount:      amount,
			Description: "withdrawal payout",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
