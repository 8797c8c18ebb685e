// Package user provides registration and read queries for platform members.
// Authentication itself is an external collaborator; this service only owns
// the referral forest and the balance/transaction read side.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	userdomain "github.com/investra/platform/pkg/domain/user"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/repository"
)

// RegisterCommand describes a registration request. ReferralCode, when set,
// is the referring user's code; the upline link is bound once, here.
type RegisterCommand struct {
	Email        string
	ReferralCode string
}

// Service provides user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a user service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a user with a zero balance, a fresh referral code and,
// when a referral code was supplied, the upline back-reference.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*dto.UserRead, error) {
	id := uuid.New()
	create := dto.UserCreate{
		ID:           id,
		Email:        cmd.Email,
		ReferralCode: userdomain.NewReferralCode(id),
	}

	var created *dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if existing, err := users.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
			return userdomain.ErrEmailTaken
		} else if err != nil && !errors.Is(err, userdomain.ErrNotFound) {
			return err
		}

		if cmd.ReferralCode != "" {
			upline, err := users.GetByReferralCode(ctx, cmd.ReferralCode)
			if err != nil {
				if errors.Is(err, userdomain.ErrNotFound) {
					return userdomain.ErrUplineNotFound
				}
				return err
			}
			uplineID := upline.ID
			create.UplineID = &uplineID
		}

		if err := users.Create(ctx, create); err != nil {
			return err
		}
		created, err = users.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "userID", id, "email", cmd.Email, "upline", create.UplineID)
	return created, nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u *dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Transactions returns the user's full ledger history, oldest first.
func (s *Service) Transactions(ctx context.Context, id uuid.UUID) ([]*dto.TransactionRead, error) {
	var txs []*dto.TransactionRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUser(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}
