package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

type TransactionSource string

const (
	SourceBookingPayment TransactionSource = "booking_payment"
	SourceWalletFunding  TransactionSource = "wallet_funding"
)

type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
)

// Transaction records a single monetary movement on a user's wallet.
// Reference is unique; a reference reaches "success" at most once.
type Transaction struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    int64             `json:"user_id" gorm:"not null;index"`
	BookingID *int64            `json:"booking_id,omitempty" gorm:"index"`
	Type      TransactionType   `json:"type" gorm:"type:varchar(16);not null"`
	Source    TransactionSource `json:"source" gorm:"type:varchar(32);not null"`
	Reference string            `json:"reference" gorm:"not null;uniqueIndex"`
	Amount    decimal.Decimal   `json:"amount" gorm:"type:numeric(14,2);not null"`
	Status    TransactionStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
