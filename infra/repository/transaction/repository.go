package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/investra/platform/infra/repository/model"
	ledgerdomain "github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

// Create implements repository.TransactionRepository.
func (r *repo) Create(ctx context.Context, create dto.TransactionCreate) error {
	tx := model.Transaction{
		ID:              create.ID,
		UserID:          create.UserID,
		Type:            create.Type,
		Mode:            create.Mode,
		Amount:          create.AmountCents,
		PreviousBalance: create.PreviousBalanceCents,
		NewBalance:      create.NewBalanceCents,
		Status:          create.Status,
		Description:     create.Description,
		Reference:       create.Reference,
		ReferenceID:     create.ReferenceID,
	}
	return r.db.WithContext(ctx).Create(&tx).Error
}

// Get implements repository.TransactionRepository.
func (r *repo) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	var tx model.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return mapModelToRead(&tx), nil
}

// GetByReference implements repository.TransactionRepository. A missing
// reference is not an error: it returns (nil, nil) so callers can use it as
// a replay-protection lookup.
func (r *repo) GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).First(&tx, "reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToRead(&tx), nil
}

// GetByReferenceID implements repository.TransactionRepository. Like
// GetByReference, a miss returns (nil, nil).
func (r *repo) GetByReferenceID(ctx context.Context, referenceID uuid.UUID) (*dto.TransactionRead, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).First(&tx, "reference_id = ?", referenceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToRead(&tx), nil
}

// ListCompletedByUser implements repository.TransactionRepository. Rows come
// back in chronological order; id is the tie-break for equal timestamps so
// the chain fold is deterministic.
func (r *repo) ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(ledgerdomain.StatusCompleted)).
		Order("created_at ASC, id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(txs), nil
}

// ListByUser implements repository.TransactionRepository.
func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(txs), nil
}

func mapModelsToReads(txs []model.Transaction) []*dto.TransactionRead {
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToRead(&txs[i]))
	}
	return result
}

// mapModelToRead maps a gorm model to a read-optimized DTO.
func mapModelToRead(tx *model.Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:                   tx.ID,
		UserID:               tx.UserID,
		Type:                 tx.Type,
		Mode:                 tx.Mode,
		AmountCents:          tx.Amount,
		PreviousBalanceCents: tx.PreviousBalance,
		NewBalanceCents:      tx.NewBalance,
		Status:               tx.Status,
		Description:          tx.Description,
		Reference:            tx.Reference,
		ReferenceID:          tx.ReferenceID,
		CreatedAt:            tx.CreatedAt,
	}
}
