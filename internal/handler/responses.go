package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"cardvault/internal/model"
)

const maskPrefix = "**** **** **** "

// CardResponse is the external view of a card. The PAN never leaves the
// service unmasked; only the last four digits appear.
type CardResponse struct {
	ID               uint            `json:"id"`
	MaskedCardNumber string          `json:"maskedCardNumber"`
	CardHolderName   string          `json:"cardHolderName"`
	ExpirationDate   model.Date      `json:"expirationDate"`
	Status           string          `json:"status"`
	Balance          decimal.Decimal `json:"balance"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	UserID           uint            `json:"userId"`
}

// NewCardResponse masks and shapes a card for the wire.
func NewCardResponse(card *model.Card) CardResponse {
	return CardResponse{
		ID:               card.ID,
		MaskedCardNumber: maskPrefix + card.LastFourDigits,
		CardHolderName:   card.CardHolderName,
		ExpirationDate:   card.ExpirationDate,
		Status:           string(card.Status),
		Balance:          card.Balance,
		CreatedAt:        card.CreatedAt,
		UpdatedAt:        card.UpdatedAt,
		UserID:           card.UserID,
	}
}

// TransactionResponse is the external view of a transfer record.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionId"`
	FromCardMasked string          `json:"fromCardMasked"`
	ToCardMasked   string          `json:"toCardMasked"`
	Amount         decimal.Decimal `json:"amount"`
	Timestamp      time.Time       `json:"timestamp"`
	Status         string          `json:"status"`
	Description    string          `json:"description,omitempty"`
}

// NewTransactionResponse masks both endpoint cards and shapes the record.
func NewTransactionResponse(transaction *model.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  transaction.TransactionID,
		FromCardMasked: maskPrefix + transaction.FromCard.LastFourDigits,
		ToCardMasked:   maskPrefix + transaction.ToCard.LastFourDigits,
		Amount:         transaction.Amount,
		Timestamp:      transaction.Timestamp,
		Status:         string(transaction.Status),
		Description:    transaction.Description,
	}
}

// UserResponse is the external view of a user account.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Enabled   bool   `json:"enabled"`
}

// NewUserResponse shapes a user for the wire; the password verifier is
// never serialized.
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		Enabled:   user.Enabled,
	}
}
