// Package fakes provides in-memory repository implementations and a
// pass-through unit of work for service tests.
package fakes

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/investra/platform/pkg/domain/investment"
	"github.com/investra/platform/pkg/domain/ledger"
	"github.com/investra/platform/pkg/domain/user"
	"github.com/investra/platform/pkg/dto"
	"github.com/investra/platform/pkg/repository"
)

// UserRepo is an in-memory UserRepository.
type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]dto.UserRead

	// UpdateBalanceErr, when set, is returned by UpdateBalance.
	UpdateBalanceErr error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]dto.UserRead)}
}

// Seed stores a user directly, bypassing Create.
func (r *UserRepo) Seed(u dto.UserRead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

// Balance returns the stored balance for a user, or 0 when absent.
func (r *UserRepo) Balance(id uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].BalanceCents
}

func (r *UserRepo) Create(_ context.Context, create dto.UserCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, create.Email) {
			return user.ErrEmailTaken
		}
	}
	r.users[create.ID] = dto.UserRead{
		ID:           create.ID,
		Email:        create.Email,
		UplineID:     create.UplineID,
		ReferralCode: create.ReferralCode,
	}
	return nil
}

func (r *UserRepo) Get(_ context.Context, id uuid.UUID) (*dto.UserRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*dto.UserRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepo) GetByReferralCode(_ context.Context, code string) (*dto.UserRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ReferralCode == code {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepo) UpdateBalance(_ context.Context, id uuid.UUID, balanceCents int64) error {
	if r.UpdateBalanceErr != nil {
		return r.UpdateBalanceErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.BalanceCents = balanceCents
	r.users[id] = u
	return nil
}

func (r *UserRepo) ListAll(_ context.Context) ([]*dto.UserRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*dto.UserRead, 0, len(r.users))
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// InvestmentRepo is an in-memory InvestmentRepository.
type InvestmentRepo struct {
	mu          sync.Mutex
	investments map[uuid.UUID]dto.InvestmentRead
	order       []uuid.UUID
}

func NewInvestmentRepo() *InvestmentRepo {
	return &InvestmentRepo{investments: make(map[uuid.UUID]dto.InvestmentRead)}
}

// Seed stores an investment directly, bypassing Create.
func (r *InvestmentRepo) Seed(inv dto.InvestmentRead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.investments[inv.ID] = inv
	r.order = append(r.order, inv.ID)
}

func (r *InvestmentRepo) Create(_ context.Context, create dto.InvestmentCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.investments[create.ID] = dto.InvestmentRead{
		ID:             create.ID,
		UserID:         create.UserID,
		AmountCents:    create.AmountCents,
		Status:         create.Status,
		DailyRate:      create.DailyRate,
		ApprovalMethod: create.ApprovalMethod,
	}
	r.order = append(r.order, create.ID)
	return nil
}

func (r *InvestmentRepo) Get(_ context.Context, id uuid.UUID) (*dto.InvestmentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.investments[id]
	if !ok {
		return nil, investment.ErrNotFound
	}
	return &inv, nil
}

func (r *InvestmentRepo) ListActive(_ context.Context) ([]*dto.InvestmentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dto.InvestmentRead
	for _, id := range r.order {
		inv := r.investments[id]
		if inv.Status == string(investment.StatusActive) {
			inv := inv
			out = append(out, &inv)
		}
	}
	return out, nil
}

func (r *InvestmentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*dto.InvestmentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dto.InvestmentRead
	for _, id := range r.order {
		inv := r.investments[id]
		if inv.UserID == userID {
			inv := inv
			out = append(out, &inv)
		}
	}
	return out, nil
}

func (r *InvestmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.investments[id]
	if !ok {
		return investment.ErrNotFound
	}
	inv.Status = status
	r.investments[id] = inv
	return nil
}

// TransactionRepo is an in-memory TransactionRepository. Rows are kept in
// insertion order, which stands in for created_at ordering.
type TransactionRepo struct {
	mu   sync.Mutex
	rows []dto.TransactionRead

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

func NewTransactionRepo() *TransactionRepo {
	return &TransactionRepo{}
}

// Seed appends a row directly, bypassing Create.
func (r *TransactionRepo) Seed(tx dto.TransactionRead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, tx)
}

// All returns every stored row in insertion order.
func (r *TransactionRepo) All() []dto.TransactionRead {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.TransactionRead, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *TransactionRepo) Create(_ context.Context, create dto.TransactionCreate) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, dto.TransactionRead{
		ID:                   create.ID,
		UserID:               create.UserID,
		Type:                 create.Type,
		Mode:                 create.Mode,
		AmountCents:          create.AmountCents,
		PreviousBalanceCents: create.PreviousBalanceCents,
		NewBalanceCents:      create.NewBalanceCents,
		Status:               create.Status,
		Description:          create.Description,
		Reference:            create.Reference,
		ReferenceID:          create.ReferenceID,
	})
	return nil
}

func (r *TransactionRepo) Get(_ context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.rows {
		if tx.ID == id {
			tx := tx
			return &tx, nil
		}
	}
	return nil, ledger.ErrTransactionNotFound
}

func (r *TransactionRepo) GetByReference(_ context.Context, reference string) (*dto.TransactionRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.rows {
		if tx.Reference != nil && *tx.Reference == reference {
			tx := tx
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) GetByReferenceID(_ context.Context, referenceID uuid.UUID) (*dto.TransactionRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.rows {
		if tx.ReferenceID != nil && *tx.ReferenceID == referenceID {
			tx := tx
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) ListCompletedByUser(_ context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dto.TransactionRead
	for _, tx := range r.rows {
		if tx.UserID == userID && tx.Status == string(ledger.StatusCompleted) {
			tx := tx
			out = append(out, &tx)
		}
	}
	return out, nil
}

func (r *TransactionRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dto.TransactionRead
	for _, tx := range r.rows {
		if tx.UserID == userID {
			tx := tx
			out = append(out, &tx)
		}
	}
	return out, nil
}

// DistributionLogRepo is an in-memory DistributionLogRepository keyed by the
// composite idempotency key.
type DistributionLogRepo struct {
	mu   sync.Mutex
	logs map[string]dto.DistributionLogRead
}

func NewDistributionLogRepo() *DistributionLogRepo {
	return &DistributionLogRepo{logs: make(map[string]dto.DistributionLogRead)}
}

func logKey(userID, investmentID uuid.UUID, date, triggerType string) string {
	return userID.String() + "|" + investmentID.String() + "|" + date + "|" + triggerType
}

// Count returns the number of stored log rows.
func (r *DistributionLogRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func (r *DistributionLogRepo) Get(_ context.Context, userID, investmentID uuid.UUID, date, triggerType string) (*dto.DistributionLogRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.logs[logKey(userID, investmentID, date, triggerType)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *DistributionLogRepo) Create(_ context.Context, create dto.DistributionLogCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[logKey(create.UserID, create.InvestmentID, create.Date, create.TriggerType)] = dto.DistributionLogRead{
		ID:           create.ID,
		UserID:       create.UserID,
		InvestmentID: create.InvestmentID,
		Date:         create.Date,
		TriggerType:  create.TriggerType,
		AmountCents:  create.AmountCents,
	}
	return nil
}

func (r *DistributionLogRepo) UpsertIncrement(_ context.Context, create dto.DistributionLogCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := logKey(create.UserID, create.InvestmentID, create.Date, create.TriggerType)
	if row, ok := r.logs[key]; ok {
		row.AmountCents += create.AmountCents
		r.logs[key] = row
		return nil
	}
	r.logs[key] = dto.DistributionLogRead{
		ID:           create.ID,
		UserID:       create.UserID,
		InvestmentID: create.InvestmentID,
		Date:         create.Date,
		TriggerType:  create.TriggerType,
		AmountCents:  create.AmountCents,
	}
	return nil
}

// Uow is a pass-through unit of work over the in-memory repositories. Do
// simply invokes fn against the same repositories, so there is no rollback.
type Uow struct {
	Users        *UserRepo
	Investments  *InvestmentRepo
	Transactions *TransactionRepo
	Logs         *DistributionLogRepo
}

// NewUow builds a unit of work with a fresh repository set.
func NewUow() *Uow {
	return &Uow{
		Users:        NewUserRepo(),
		Investments:  NewInvestmentRepo(),
		Transactions: NewTransactionRepo(),
		Logs:         NewDistributionLogRepo(),
	}
}

func (u *Uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *Uow) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.UserRepository)(nil)).Elem():
		return u.Users, nil
	case reflect.TypeOf((*repository.InvestmentRepository)(nil)).Elem():
		return u.Investments, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return u.Transactions, nil
	case reflect.TypeOf((*repository.DistributionLogRepository)(nil)).Elem():
		return u.Logs, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (u *Uow) UserRepository() (repository.UserRepository, error) {
	return u.Users, nil
}

func (u *Uow) InvestmentRepository() (repository.InvestmentRepository, error) {
	return u.Investments, nil
}

func (u *Uow) TransactionRepository() (repository.TransactionRepository, error) {
	return u.Transactions, nil
}

func (u *Uow) DistributionLogRepository() (repository.DistributionLogRepository, error) {
	return u.Logs, nil
}
