package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction records one sale, return, or payout.
// Type: "sale" | "return" | "payout"
// Status: "completed" | "voided"
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Type          string          `gorm:"type:varchar(20);not null;index"`
	TillSessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'"`
	// VoidOf links a compensating transaction back to the one it reverses.
	VoidOf    *uuid.UUID `gorm:"type:uuid"`
	Note      *string
	CreatedAt time.Time `gorm:"index"`

	Items   []TransactionItem `gorm:"foreignKey:TransactionID"`
	Cashier *User             `gorm:"foreignKey:CashierID"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TransactionItem is one line of a sale or return.
type TransactionItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UPC           string          `gorm:"column:upc;not null"`
	Description   string          `gorm:"not null"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Taxable       bool            `gorm:"not null"`
}

func (TransactionItem) TableName() string { return "transaction_items" }
