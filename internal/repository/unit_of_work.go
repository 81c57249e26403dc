package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the store contracts bound to one transaction scope.
type Repositories struct {
	Users        UserRepository
	Cards        CardRepository
	Transactions TransactionRepository
}

// TxManager runs a function inside a single unit of work. Every mutation
// made through the repositories it yields commits together at scope exit,
// or is discarded entirely when the function returns an error.
type TxManager interface {
	Do(ctx context.Context, fn func(tx Repositories) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager builds a GORM-backed transaction manager.
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(tx Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repositories{
			Users:        NewUserRepository(tx),
			Cards:        NewCardRepository(tx),
			Transactions: NewTransactionRepository(tx),
		})
	})
}
