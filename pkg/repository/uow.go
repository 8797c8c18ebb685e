package repository

import (
	"context"
	"reflect"
)

// UnitOfWork is the contract for transactional work and type-safe repository
// access. All repositories obtained from one UnitOfWork share the same DB
// session, so every read and write inside Do is atomic: either all of it
// commits or none of it is visible to any other reader.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	// Typed convenience accessors.
	UserRepository() (UserRepository, error)
	InvestmentRepository() (InvestmentRepository, error)
	TransactionRepository() (TransactionRepository, error)
	DistributionLogRepository() (DistributionLogRepository, error)
}
