package repository

import (
	"context"

	"gorm.io/gorm"

	"cardvault/internal/model"
)

var transactionSortColumns = map[string]string{
	"timestamp": "transactions.timestamp",
	"amount":    "transactions.amount",
	"id":        "transactions.id",
}

// TransactionRepository defines transaction persistence operations.
// Transactions are append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error)
	ListByFromUserID(ctx context.Context, userID uint, req PageRequest) (Page[model.Transaction], error)
	ListByToUserID(ctx context.Context, userID uint, req PageRequest) (Page[model.Transaction], error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds a GORM-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.WithContext(ctx).Preload("FromCard").Preload("ToCard").
		First(&transaction, id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.WithContext(ctx).Preload("FromCard").Preload("ToCard").
		Where("transaction_id = ?", transactionID).First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) ListByFromUserID(ctx context.Context, userID uint, req PageRequest) (Page[model.Transaction], error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Joins("JOIN bank_cards ON bank_cards.id = transactions.from_card_id").
		Where("bank_cards.user_id = ?", userID)
	return r.page(ctx, req, query)
}

func (r *transactionRepository) ListByToUserID(ctx context.Context, userID uint, req PageRequest) (Page[model.Transaction], error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Joins("JOIN bank_cards ON bank_cards.id = transactions.to_card_id").
		Where("bank_cards.user_id = ?", userID)
	return r.page(ctx, req, query)
}

func (r *transactionRepository) page(ctx context.Context, req PageRequest, query *gorm.DB) (Page[model.Transaction], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[model.Transaction]{}, err
	}

	var transactions []model.Transaction
	err := query.
		Preload("FromCard").Preload("ToCard").
		Order(req.OrderClause(transactionSortColumns, "transactions.timestamp")).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&transactions).Error
	if err != nil {
		return Page[model.Transaction]{}, err
	}
	return NewPage(transactions, req, total), nil
}
