package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TillSession represents the lifecycle of a cash drawer session.
// Status: "open" | "closed"
type TillSession struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Register     int             `gorm:"not null;index"`
	OpenedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	OpeningFloat decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ExpectedCash is computed on close: OpeningFloat + SUM(movements)
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CountedCash  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OverShort    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OverShortPct *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Status       string           `gorm:"type:varchar(20);not null;default:'open'"`
	Notes        *string
	OpenedAt     time.Time
	ClosedAt     *time.Time

	Movements []TillMovement `gorm:"foreignKey:TillSessionID"`
}

func (TillSession) TableName() string { return "till_sessions" }

func (s *TillSession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TillMovement is an immutable event in the cash drawer ledger.
// Type: "sale" | "refund" | "payout" | "deposit" | "withdrawal"
// Movements are NEVER modified or deleted — voids create inverse entries.
type TillMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TillSessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"` // signed: out of drawer = negative
	Description   string          `gorm:"not null"`
	// ReferenceID links to the originating Transaction or manual operation
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (TillMovement) TableName() string { return "till_movements" }

func (m *TillMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
