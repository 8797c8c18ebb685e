package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/investra/platform/infra/repository/model"
	userdomain "github.com/investra/platform/pkg/domain/user"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a user repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.UserRepository {
	return &repo{db: db}
}

// Create implements repository.UserRepository.
func (r *repo) Create(ctx context.Context, create dto.UserCreate) error {
	u := model.User{
		ID:           create.ID,
		Email:        create.Email,
		Balance:      0,
		UplineID:     create.UplineID,
		ReferralCode: create.ReferralCode,
	}
	return r.db.WithContext(ctx).Create(&u).Error
}

// Get implements repository.UserRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToRead(&u), nil
}

// GetByEmail implements repository.UserRepository.
func (r *repo) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToRead(&u), nil
}

// GetByReferralCode implements repository.UserRepository.
func (r *repo) GetByReferralCode(ctx context.Context, code string) (*dto.UserRead, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "referral_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToRead(&u), nil
}

// UpdateBalance implements repository.UserRepository.
func (r *repo) UpdateBalance(ctx context.Context, id uuid.UUID, balanceCents int64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("balance", balanceCents).Error
}

// ListAll implements repository.UserRepository.
func (r *repo) ListAll(ctx context.Context) ([]*dto.UserRead, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.UserRead, 0, len(users))
	for i := range users {
		result = append(result, mapModelToRead(&users[i]))
	}
	return result, nil
}

// mapModelToRead maps a gorm model to a read-optimized DTO.
func mapModelToRead(u *model.User) *dto.UserRead {
	return &dto.UserRead{
		ID:           u.ID,
		Email:        u.Email,
		BalanceCents: u.Balance,
		UplineID:     u.UplineID,
		ReferralCode: u.ReferralCode,
		CreatedAt:    u.CreatedAt,
	}
}
