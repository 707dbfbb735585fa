package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reason classifies why a product's on-hand quantity changed.
type Reason string

const (
	ReasonPurchase   Reason = "purchase"
	ReasonSale       Reason = "sale"
	ReasonAdjustment Reason = "adjustment"
	ReasonInitial    Reason = "initial"
	ReasonTestData   Reason = "test_data"
	ReasonReturn     Reason = "return"
	ReasonDamage     Reason = "damage"
	ReasonTheft      Reason = "theft"
)

var validReasons = map[Reason]bool{
	ReasonPurchase:   true,
	ReasonSale:       true,
	ReasonAdjustment: true,
	ReasonInitial:    true,
	ReasonTestData:   true,
	ReasonReturn:     true,
	ReasonDamage:     true,
	ReasonTheft:      true,
}

// Valid reports whether r is one of the fixed reason codes.
func (r Reason) Valid() bool { return validReasons[r] }

// LedgerEntry is one immutable record of a quantity change. Entries are
// append-only: corrections insert a new compensating entry, never mutate
// history. QuantityAfter of entry n equals QuantityBefore of entry n+1 for
// the same UPC (chronological chain, no gaps).
type LedgerEntry struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UPC            string `gorm:"column:upc;not null;index:idx_ledger_upc_created,priority:1"`
	Reason         Reason `gorm:"type:varchar(20);not null;index:idx_ledger_reason_created,priority:1"`
	Delta          int    `gorm:"not null"` // positive = stock in, negative = stock out
	QuantityBefore int    `gorm:"not null"`
	QuantityAfter  int    `gorm:"not null"`
	// Cost and Price snapshot the product's values at the time of the change.
	Cost  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Price *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// TransactionID links to the causing sale/return, when there is one.
	TransactionID *uuid.UUID `gorm:"type:uuid;index"`
	Note          *string
	// Actor fields are nil for system-generated entries (seed/test data).
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	ActorName *string
	CreatedAt time.Time `gorm:"index:idx_ledger_upc_created,priority:2;index:idx_ledger_reason_created,priority:2"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
