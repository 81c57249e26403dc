package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CardStatus represents the lifecycle state of a bank card.
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

// Valid reports whether s is one of the known card statuses.
func (s CardStatus) Valid() bool {
	return s == CardStatusActive || s == CardStatusBlocked || s == CardStatusExpired
}

// Card represents a bank card owned by exactly one user. The PAN is never
// stored in clear: the row keeps a reversible ciphertext for display/audit
// and a keyed digest for uniqueness and lookup.
type Card struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	PANEncrypted   string          `json:"-" gorm:"column:card_number_encrypted;size:255;not null"`
	PANHash        string          `json:"-" gorm:"column:card_number_hash;uniqueIndex;size:64;not null"`
	LastFourDigits string          `json:"-" gorm:"size:4;not null"`
	CardHolderName string          `json:"cardHolderName" gorm:"size:100;not null"`
	ExpirationDate Date            `json:"expirationDate" gorm:"not null"`
	Status         CardStatus      `json:"status" gorm:"type:varchar(20);not null"`
	Balance        decimal.Decimal `json:"balance" gorm:"type:decimal(15,2);not null;default:0"`
	UserID         uint            `json:"userId" gorm:"not null;index"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName keeps the original schema name.
func (Card) TableName() string {
	return "bank_cards"
}

// BeforeCreate defaults the status to ACTIVE when unset.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = CardStatusActive
	}
	return nil
}

// BeforeUpdate forces the status to EXPIRED when the expiration date has passed.
func (c *Card) BeforeUpdate(tx *gorm.DB) error {
	if c.ExpirationDate.Before(Today()) {
		c.Status = CardStatusExpired
	}
	return nil
}

// IsExpired reports whether the card's expiration date is before today.
func (c *Card) IsExpired() bool {
	return c.ExpirationDate.Before(Today())
}
