package investment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/investra/platform/infra/repository/model"
	investmentdomain "github.com/investra/platform/pkg/domain/investment"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates an investment repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.InvestmentRepository {
	return &repo{db: db}
}

// Create implements repository.InvestmentRepository.
func (r *repo) Create(ctx context.Context, create dto.InvestmentCreate) error {
	inv := model.Investment{
		ID:             create.ID,
		UserID:         create.UserID,
		Amount:         create.AmountCents,
		Status:         create.Status,
		DailyRate:      create.DailyRate,
		ApprovalMethod: create.ApprovalMethod,
	}
	return r.db.WithContext(ctx).Create(&inv).Error
}

// Get implements repository.InvestmentRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*dto.InvestmentRead, error) {
	var inv model.Investment
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, investmentdomain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToRead(&inv), nil
}

// ListActive implements repository.InvestmentRepository.
func (r *repo) ListActive(ctx context.Context) ([]*dto.InvestmentRead, error) {
	var invs []model.Investment
	err := r.db.WithContext(ctx).
		Where("status = ?", string(investmentdomain.StatusActive)).
		Order("created_at ASC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(invs), nil
}

// ListByUser implements repository.InvestmentRepository.
func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.InvestmentRead, error) {
	var invs []model.Investment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(invs), nil
}

// UpdateStatus implements repository.InvestmentRepository.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func mapModelsToReads(invs []model.Investment) []*dto.InvestmentRead {
	result := make([]*dto.InvestmentRead, 0, len(invs))
	for i := range invs {
		result = append(result, mapModelToRead(&invs[i]))
	}
	return result
}

// mapModelToRead maps a gorm model to a read-optimized DTO.
func mapModelToRead(inv *model.Investment) *dto.InvestmentRead {
	return &dto.InvestmentRead{
		ID:             inv.ID,
		UserID:         inv.UserID,
		AmountCents:    inv.Amount,
		Status:         inv.Status,
		DailyRate:      inv.DailyRate,
		ApprovalMethod: inv.ApprovalMethod,
		CreatedAt:      inv.CreatedAt,
	}
}
