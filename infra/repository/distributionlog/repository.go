package distributionlog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/investra/platform/infra/repository/model"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

// New creates a distribution-log repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.DistributionLogRepository {
	return &repo{db: db}
}

// Get implements repository.DistributionLogRepository. A missing row returns
// (nil, nil): absence is the "not yet distributed" signal, not an error.
func (r *repo) Get(ctx context.Context, userID, investmentID uuid.UUID, date, triggerType string) (*dto.DistributionLogRead, error) {
	var row model.DistributionLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND investment_id = ? AND date = ? AND trigger_type = ?",
			userID, investmentID, date, triggerType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToRead(&row), nil
}

// Create implements repository.DistributionLogRepository. The composite
// unique index rejects a second row for the same key.
func (r *repo) Create(ctx context.Context, create dto.DistributionLogCreate) error {
	row := mapCreateToModel(create)
	return r.db.WithContext(ctx).Create(&row).Error
}

// UpsertIncrement implements repository.DistributionLogRepository. On key
// conflict the existing amount is incremented, so repeated forced re-runs
// accumulate instead of overwriting.
func (r *repo) UpsertIncrement(ctx context.Context, create dto.DistributionLogCreate) error {
	row := mapCreateToModel(create)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "investment_id"}, {Name: "date"}, {Name: "trigger_type"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"amount": gorm.Expr("distribution_logs.amount + excluded.amount"),
		}),
	}).Create(&row).Error
}

func mapCreateToModel(create dto.DistributionLogCreate) model.DistributionLog {
	return model.DistributionLog{
		ID:           create.ID,
		UserID:       create.UserID,
		InvestmentID: create.InvestmentID,
		Date:         create.Date,
		TriggerType:  create.TriggerType,
		Amount:       create.AmountCents,
	}
}

// mapModelToRead maps a gorm model to a read-optimized DTO.
func mapModelToRead(row *model.DistributionLog) *dto.DistributionLogRead {
	return &dto.DistributionLogRead{
		ID:           row.ID,
		UserID:       row.UserID,
		InvestmentID: row.InvestmentID,
		Date:         row.Date,
		TriggerType:  row.TriggerType,
		AmountCents:  row.Amount,
		CreatedAt:    row.CreatedAt,
	}
}
