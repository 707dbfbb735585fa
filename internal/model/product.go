package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item identified by its UPC (barcode).
// OnHand is denormalized from the ledger for fast catalog listing — it is
// written exclusively by the inventory service inside the same transaction
// that appends the ledger entry, never by any other component.
type Product struct {
	UPC         string          `gorm:"column:upc;primaryKey"`
	Description string          `gorm:"not null"`
	Category    string          `gorm:"index"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Taxable     bool            `gorm:"not null;default:true"`
	OnHand      int             `gorm:"not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Product) TableName() string { return "products" }

// PriceHistory records every cost/price edit on a product.
type PriceHistory struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UPC       string `gorm:"column:upc;not null;index"`
	OldCost   decimal.Decimal `gorm:"type:decimal(10,2)"`
	NewCost   decimal.Decimal `gorm:"type:decimal(10,2)"`
	OldPrice  decimal.Decimal `gorm:"type:decimal(10,2)"`
	NewPrice  decimal.Decimal `gorm:"type:decimal(10,2)"`
	ChangedBy *string
	CreatedAt time.Time
}

func (PriceHistory) TableName() string { return "price_history" }
