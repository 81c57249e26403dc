package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cardvault/internal/auth"
	"cardvault/internal/crypto"
	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/repository"
)

// TransferParams carries the validated inputs of a transfer.
type TransferParams struct {
	FromCardNumber string
	ToCardNumber   string
	Amount         decimal.Decimal
	Description    string
}

// TransferDirection selects which side of the caller's transaction
// history to list.
type TransferDirection string

const (
	TransferOutgoing TransferDirection = "outgoing"
	TransferIncoming TransferDirection = "incoming"
)

// TransferService moves money between two cards of the same owner and
// keeps a durable, append-only transaction record.
type TransferService interface {
	TransferBetweenOwnCards(ctx context.Context, call auth.CallContext, params TransferParams) (*model.Transaction, error)
	GetByTransactionID(ctx context.Context, call auth.CallContext, transactionID string) (*model.Transaction, error)
	ListOwn(ctx context.Context, call auth.CallContext, direction TransferDirection, req repository.PageRequest) (repository.Page[model.Transaction], error)
}

type transferService struct {
	cardRepo        repository.CardRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	txManager       repository.TxManager
	cache           Cache
}

// NewTransferService creates a new transfer service.
func NewTransferService(
	cardRepo repository.CardRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	txManager repository.TxManager,
	cache Cache,
) TransferService {
	return &transferService{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		txManager:       txManager,
		cache:           cache,
	}
}

// TransferBetweenOwnCards debits the source card and credits the
// destination card atomically, then persists a COMPLETED transaction.
// Both card saves and the transaction insert share one unit of work; any
// failure rolls everything back.
func (s *transferService) TransferBetweenOwnCards(ctx context.Context, call auth.CallContext, params TransferParams) (*model.Transaction, error) {
	if !call.Authenticated() {
		return nil, errors.Unauthenticated("no authenticated principal")
	}
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ValidationFailure("Amount must be greater than 0")
	}

	fromHash := crypto.Digest(params.FromCardNumber)
	toHash := crypto.Digest(params.ToCardNumber)

	var transaction *model.Transaction
	var fromID, toID uint

	err := s.txManager.Do(ctx, func(tx repository.Repositories) error {
		from, err := tx.Cards.FindByHash(ctx, fromHash)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.CardNotFound("From card not found")
			}
			return err
		}
		to, err := tx.Cards.FindByHash(ctx, toHash)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.CardNotFound("To card not found")
			}
			return err
		}

		if from.User.Username != call.Username || to.User.Username != call.Username {
			return errors.OperationNotAllowed("You can only transfer between your own cards")
		}

		// Re-read both rows under row locks, in ascending id order so two
		// concurrent transfers cannot deadlock or double-spend.
		from, to, err = lockPair(ctx, tx.Cards, from.ID, to.ID)
		if err != nil {
			return err
		}
		fromID, toID = from.ID, to.ID

		if err := checkCardTransferable(from); err != nil {
			return err
		}
		if err := checkCardTransferable(to); err != nil {
			return err
		}

		if from.Balance.LessThan(params.Amount) {
			return errors.InsufficientFunds("Insufficient funds")
		}

		from.Balance = from.Balance.Sub(params.Amount)
		to.Balance = to.Balance.Add(params.Amount)

		if err := tx.Cards.Save(ctx, from); err != nil {
			return err
		}
		if err := tx.Cards.Save(ctx, to); err != nil {
			return err
		}

		transaction = &model.Transaction{
			TransactionID: uuid.New().String(),
			FromCardID:    from.ID,
			ToCardID:      to.ID,
			Amount:        params.Amount,
			Description:   params.Description,
			Status:        model.TransactionStatusCompleted,
		}
		if err := tx.Transactions.Create(ctx, transaction); err != nil {
			return err
		}

		transaction.FromCard = *from
		transaction.ToCard = *to
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cardCacheKey(fromID))
	_ = s.cache.Delete(ctx, cardCacheKey(toID))

	return transaction, nil
}

// GetByTransactionID resolves a transaction by its client-visible id,
// allowing only an involved owner or an admin to read it.
func (s *transferService) GetByTransactionID(ctx context.Context, call auth.CallContext, transactionID string) (*model.Transaction, error) {
	if !call.Authenticated() {
		return nil, errors.Unauthenticated("no authenticated principal")
	}

	transaction, err := s.transactionRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if call.IsAdmin() {
		return transaction, nil
	}

	user, err := s.userRepo.FindByUsername(ctx, call.Username)
	if err != nil {
		return nil, err
	}
	if transaction.FromCard.UserID != user.ID && transaction.ToCard.UserID != user.ID {
		return nil, errors.AccessDenied("Access denied to this transaction")
	}
	return transaction, nil
}

// ListOwn pages through the caller's transaction history on the chosen
// side (outgoing by default).
func (s *transferService) ListOwn(ctx context.Context, call auth.CallContext, direction TransferDirection, req repository.PageRequest) (repository.Page[model.Transaction], error) {
	if !call.Authenticated() {
		return repository.Page[model.Transaction]{}, errors.Unauthenticated("no authenticated principal")
	}

	user, err := s.userRepo.FindByUsername(ctx, call.Username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Page[model.Transaction]{}, errors.UserNotFound("User not found: %s", call.Username)
		}
		return repository.Page[model.Transaction]{}, err
	}

	if direction == TransferIncoming {
		return s.transactionRepo.ListByToUserID(ctx, user.ID, req)
	}
	return s.transactionRepo.ListByFromUserID(ctx, user.ID, req)
}

// lockPair locks both card rows in ascending id order and returns them as
// (from, to). When both numbers resolve to the same card the row is
// locked once.
func lockPair(ctx context.Context, cards repository.CardRepository, fromID, toID uint) (*model.Card, *model.Card, error) {
	if fromID == toID {
		card, err := cards.FindByIDForUpdate(ctx, fromID)
		if err != nil {
			return nil, nil, err
		}
		return card, card, nil
	}

	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := cards.FindByIDForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := cards.FindByIDForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

// checkCardTransferable refuses transfers through cards that are not
// ACTIVE or have passed their expiration date.
func checkCardTransferable(card *model.Card) error {
	if card.Status != model.CardStatusActive {
		return errors.OperationNotAllowed(
			"Card is %s. Only active cards can perform transfers",
			strings.ToLower(string(card.Status)))
	}
	if card.IsExpired() {
		return errors.OperationNotAllowed("Card is expired")
	}
	return nil
}
