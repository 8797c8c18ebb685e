// Package repository provides the gorm-backed unit of work. Repository
// implementations live in the per-aggregate subpackages.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/investra/platform/infra/repository/distributionlog"
	"github.com/investra/platform/infra/repository/investment"
	"github.com/investra/platform/infra/repository/transaction"
	"github.com/investra/platform/infra/repository/user"
	"github.com/investra/platform/pkg/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// serializationRetries bounds re-runs of a unit of work the database aborted
// with a serialization failure.
const serializationRetries = 3

// UoW provides a transaction boundary and repository access in one
// abstraction. All repositories handed out inside Do share the transaction
// session, which is what makes a balance write plus its ledger row atomic.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.UserRepository)(nil)).Elem():            func(db *gorm.DB) any { return user.New(db) },
			reflect.TypeOf((*repository.InvestmentRepository)(nil)).Elem():      func(db *gorm.DB) any { return investment.New(db) },
			reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():     func(db *gorm.DB) any { return transaction.New(db) },
			reflect.TypeOf((*repository.DistributionLogRepository)(nil)).Elem(): func(db *gorm.DB) any { return distributionlog.New(db) },
		},
	}
}

// Do runs fn in a SERIALIZABLE transaction, providing a UoW bound to it.
// Every balance mutation is a read-modify-write sequence; serializable
// isolation turns a concurrent lost update into an SQLSTATE 40001 abort, and
// the aborted unit of work is re-run from scratch. fn must therefore not
// carry side effects outside the transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	var err error
	for attempt := 0; ; attempt++ {
		err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
			return fn(txnUow)
		}, opts)
		if err == nil || attempt >= serializationRetries || !isSerializationFailure(err) {
			return err
		}
	}
}

// isSerializationFailure reports whether err is a Postgres serialization
// abort (SQLSTATE 40001), the one error class that is safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

// GetRepository provides type-safe access to repositories using the
// transaction session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.UserRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.UserRepository), nil
}

// InvestmentRepository implements repository.UnitOfWork.
func (u *UoW) InvestmentRepository() (repository.InvestmentRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.InvestmentRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.InvestmentRepository), nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.TransactionRepository), nil
}

// DistributionLogRepository implements repository.UnitOfWork.
func (u *UoW) DistributionLogRepository() (repository.DistributionLogRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.DistributionLogRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.DistributionLogRepository), nil
}

// session returns the transaction session when inside Do, the root session
// otherwise, so read-only callers can use the same accessors.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
