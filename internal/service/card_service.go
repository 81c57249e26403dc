package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cardvault/internal/auth"
	"cardvault/internal/crypto"
	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/repository"
)

const cardCacheTTL = 5 * time.Minute

// Cache is the subset of the cache client the services use. A nil
// *cache.Client satisfies it and behaves as a permanent miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateCardParams carries the validated inputs of a card issuance.
type CreateCardParams struct {
	CardNumber     string
	CardHolderName string
	ExpirationDate model.Date
	UserID         uint
	InitialBalance decimal.Decimal
}

// CardService handles the card lifecycle: issuance, reads, status
// mutations and deletion. Ownership and role checks are enforced against
// the caller context on every operation.
type CardService interface {
	Issue(ctx context.Context, params CreateCardParams) (*model.Card, error)
	GetByID(ctx context.Context, call auth.CallContext, id uint) (*model.Card, error)
	ListOwn(ctx context.Context, call auth.CallContext, status model.CardStatus, req repository.PageRequest) (repository.Page[model.Card], error)
	ListAll(ctx context.Context, status model.CardStatus, req repository.PageRequest) (repository.Page[model.Card], error)
	UpdateStatus(ctx context.Context, call auth.CallContext, id uint, status model.CardStatus) (*model.Card, error)
	Delete(ctx context.Context, call auth.CallContext, id uint) error
}

type cardService struct {
	userRepo  repository.UserRepository
	cardRepo  repository.CardRepository
	txManager repository.TxManager
	cipher    *crypto.Cipher
	validator *CardValidator
	cache     Cache
}

// NewCardService creates a new card service.
func NewCardService(
	userRepo repository.UserRepository,
	cardRepo repository.CardRepository,
	txManager repository.TxManager,
	cipher *crypto.Cipher,
	validator *CardValidator,
	cache Cache,
) CardService {
	return &cardService{
		userRepo:  userRepo,
		cardRepo:  cardRepo,
		txManager: txManager,
		cipher:    cipher,
		validator: validator,
		cache:     cache,
	}
}

// cachedCard is the redis payload for a card read. The entity hides its
// PAN-derived fields from JSON, so the last four digits ride along
// explicitly, as does the owner username for access checks on hits. The
// ciphertext and digest deliberately never reach redis.
type cachedCard struct {
	Card           model.Card `json:"card"`
	LastFourDigits string     `json:"lastFourDigits"`
	OwnerUsername  string     `json:"ownerUsername"`
}

func newCachedCard(card *model.Card) cachedCard {
	return cachedCard{
		Card:           *card,
		LastFourDigits: card.LastFourDigits,
		OwnerUsername:  card.User.Username,
	}
}

// card rebuilds the entity view, restoring the fields the JSON round trip
// suppressed.
func (c cachedCard) card() *model.Card {
	card := c.Card
	card.LastFourDigits = c.LastFourDigits
	return &card
}

func cardCacheKey(id uint) string {
	return fmt.Sprintf("card:%d", id)
}

// Issue creates a card for the given user. The HTTP boundary restricts
// this to admins; the service assumes that precondition.
func (s *cardService) Issue(ctx context.Context, params CreateCardParams) (*model.Card, error) {
	var card *model.Card
	err := s.txManager.Do(ctx, func(tx repository.Repositories) error {
		owner, err := tx.Users.FindByID(ctx, params.UserID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.UserNotFound("User not found with id: %d", params.UserID)
			}
			return err
		}

		if err := s.validator.Validate(params.CardNumber); err != nil {
			return err
		}

		encrypted, err := s.cipher.Encrypt(params.CardNumber)
		if err != nil {
			return err
		}
		hash := crypto.Digest(params.CardNumber)

		exists, err := tx.Cards.ExistsByHash(ctx, hash)
		if err != nil {
			return err
		}
		if exists {
			return errors.CardAlreadyExists("Card already exists")
		}

		card = &model.Card{
			PANEncrypted:   encrypted,
			PANHash:        hash,
			LastFourDigits: params.CardNumber[12:],
			CardHolderName: params.CardHolderName,
			ExpirationDate: params.ExpirationDate,
			Balance:        params.InitialBalance,
			UserID:         owner.ID,
		}
		if err := tx.Cards.Save(ctx, card); err != nil {
			return err
		}
		card.User = *owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetByID resolves a card, enforcing owner-or-admin access.
func (s *cardService) GetByID(ctx context.Context, call auth.CallContext, id uint) (*model.Card, error) {
	if !call.Authenticated() {
		return nil, errors.Unauthenticated("no authenticated principal")
	}

	if data, _ := s.cache.Get(ctx, cardCacheKey(id)); data != nil {
		var cached cachedCard
		if err := json.Unmarshal(data, &cached); err == nil {
			if err := checkCardAccess(call, cached.OwnerUsername); err != nil {
				return nil, err
			}
			return cached.card(), nil
		}
	}

	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.CardNotFound("Card not found with id: %d", id)
		}
		return nil, err
	}

	if payload, err := json.Marshal(newCachedCard(card)); err == nil {
		_ = s.cache.Set(ctx, cardCacheKey(id), payload, cardCacheTTL)
	}

	if err := checkCardAccess(call, card.User.Username); err != nil {
		return nil, err
	}
	return card, nil
}

// ListOwn returns one page of the caller's cards, optionally filtered by
// status.
func (s *cardService) ListOwn(ctx context.Context, call auth.CallContext, status model.CardStatus, req repository.PageRequest) (repository.Page[model.Card], error) {
	if !call.Authenticated() {
		return repository.Page[model.Card]{}, errors.Unauthenticated("no authenticated principal")
	}

	user, err := s.userRepo.FindByUsername(ctx, call.Username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Page[model.Card]{}, errors.UserNotFound("User not found: %s", call.Username)
		}
		return repository.Page[model.Card]{}, err
	}

	if status != "" {
		return s.cardRepo.ListByUserIDAndStatus(ctx, user.ID, status, req)
	}
	return s.cardRepo.ListByUserID(ctx, user.ID, req)
}

// ListAll returns one page over every card, optionally filtered by status.
// The HTTP boundary restricts this to admins.
func (s *cardService) ListAll(ctx context.Context, status model.CardStatus, req repository.PageRequest) (repository.Page[model.Card], error) {
	if status != "" {
		return s.cardRepo.ListByStatus(ctx, status, req)
	}
	return s.cardRepo.ListAll(ctx, req)
}

// UpdateStatus mutates the card status, refusing when the card has
// already passed its expiration date.
func (s *cardService) UpdateStatus(ctx context.Context, call auth.CallContext, id uint, status model.CardStatus) (*model.Card, error) {
	if !call.Authenticated() {
		return nil, errors.Unauthenticated("no authenticated principal")
	}
	if !status.Valid() {
		return nil, errors.ValidationFailure("Invalid card status: %s", status)
	}

	var card *model.Card
	err := s.txManager.Do(ctx, func(tx repository.Repositories) error {
		found, err := tx.Cards.FindByID(ctx, id)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.CardNotFound("Card not found with id: %d", id)
			}
			return err
		}

		if err := checkCardAccess(call, found.User.Username); err != nil {
			return err
		}

		if found.IsExpired() {
			return errors.OperationNotAllowed("Cannot update status of expired card")
		}

		found.Status = status
		if err := tx.Cards.Save(ctx, found); err != nil {
			return err
		}
		card = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cardCacheKey(id))
	return card, nil
}

// Delete removes a card. Admin only.
func (s *cardService) Delete(ctx context.Context, call auth.CallContext, id uint) error {
	if !call.Authenticated() {
		return errors.Unauthenticated("no authenticated principal")
	}

	err := s.txManager.Do(ctx, func(tx repository.Repositories) error {
		card, err := tx.Cards.FindByID(ctx, id)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.CardNotFound("Card not found with id: %d", id)
			}
			return err
		}

		if !call.IsAdmin() {
			return errors.OperationNotAllowed("Admin permission required")
		}

		return tx.Cards.Delete(ctx, card)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, cardCacheKey(id))
	return nil
}

// checkCardAccess enforces owner-or-admin access to a card.
func checkCardAccess(call auth.CallContext, ownerUsername string) error {
	if call.IsAdmin() {
		return nil
	}
	if ownerUsername != call.Username {
		return errors.AccessDenied("Access denied to this card")
	}
	return nil
}
