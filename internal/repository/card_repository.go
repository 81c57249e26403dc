package repository

import (
	"context"

	"gorm.io/gorm"

	"cardvault/internal/model"
)

// cardSortColumns whitelists sortable card fields (request name -> column).
var cardSortColumns = map[string]string{
	"createdAt":      "created_at",
	"created_at":     "created_at",
	"updatedAt":      "updated_at",
	"updated_at":     "updated_at",
	"balance":        "balance",
	"expirationDate": "expiration_date",
	"id":             "id",
}

// CardRepository defines card persistence operations.
type CardRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Card, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Card, error)
	FindByHash(ctx context.Context, hash string) (*model.Card, error)
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	ListByUserID(ctx context.Context, userID uint, req PageRequest) (Page[model.Card], error)
	ListByStatus(ctx context.Context, status model.CardStatus, req PageRequest) (Page[model.Card], error)
	ListByUserIDAndStatus(ctx context.Context, userID uint, status model.CardStatus, req PageRequest) (Page[model.Card], error)
	ListAll(ctx context.Context, req PageRequest) (Page[model.Card], error)
	ListByExpirationBefore(ctx context.Context, date model.Date) ([]model.Card, error)
	Save(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, card *model.Card) error
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository builds a GORM-backed card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) FindByID(ctx context.Context, id uint) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Preload("User").First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByIDForUpdate fetches a card holding a row-level lock until the
// surrounding transaction commits.
func (r *cardRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) FindByHash(ctx context.Context, hash string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Preload("User").
		Where("card_number_hash = ?", hash).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("card_number_hash = ?", hash).Count(&count).Error
	return count > 0, err
}

func (r *cardRepository) ListByUserID(ctx context.Context, userID uint, req PageRequest) (Page[model.Card], error) {
	return r.page(ctx, req, r.db.WithContext(ctx).Model(&model.Card{}).Where("user_id = ?", userID))
}

func (r *cardRepository) ListByStatus(ctx context.Context, status model.CardStatus, req PageRequest) (Page[model.Card], error) {
	return r.page(ctx, req, r.db.WithContext(ctx).Model(&model.Card{}).Where("status = ?", status))
}

func (r *cardRepository) ListByUserIDAndStatus(ctx context.Context, userID uint, status model.CardStatus, req PageRequest) (Page[model.Card], error) {
	return r.page(ctx, req, r.db.WithContext(ctx).Model(&model.Card{}).
		Where("user_id = ? AND status = ?", userID, status))
}

func (r *cardRepository) ListAll(ctx context.Context, req PageRequest) (Page[model.Card], error) {
	return r.page(ctx, req, r.db.WithContext(ctx).Model(&model.Card{}))
}

func (r *cardRepository) ListByExpirationBefore(ctx context.Context, date model.Date) ([]model.Card, error) {
	var cards []model.Card
	if err := r.db.WithContext(ctx).
		Where("expiration_date < ?", date).Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Save(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *cardRepository) Delete(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Delete(card).Error
}

func (r *cardRepository) page(ctx context.Context, req PageRequest, query *gorm.DB) (Page[model.Card], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[model.Card]{}, err
	}

	var cards []model.Card
	err := query.
		Order(req.OrderClause(cardSortColumns, "created_at")).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&cards).Error
	if err != nil {
		return Page[model.Card]{}, err
	}
	return NewPage(cards, req, total), nil
}
