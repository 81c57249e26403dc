package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus represents the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction is an append-only record of a money movement between two cards.
// Once persisted it is never updated or deleted.
type Transaction struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	TransactionID string            `json:"transactionId" gorm:"size:36;uniqueIndex;not null"`
	FromCardID    uint              `json:"-" gorm:"not null;index"`
	ToCardID      uint              `json:"-" gorm:"not null;index"`
	Amount        decimal.Decimal   `json:"amount" gorm:"type:decimal(15,2);not null"`
	Timestamp     time.Time         `json:"timestamp" gorm:"not null"`
	Status        TransactionStatus `json:"status" gorm:"type:varchar(20);not null"`
	Description   string            `json:"description,omitempty" gorm:"size:255"`

	// Relations
	FromCard Card `json:"-" gorm:"foreignKey:FromCardID"`
	ToCard   Card `json:"-" gorm:"foreignKey:ToCardID"`
}

// BeforeCreate stamps the record and defaults the status to PENDING.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	if t.Status == "" {
		t.Status = TransactionStatusPending
	}
	return nil
}
