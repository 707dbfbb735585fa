package repository

import (
	"context"
	"errors"
	"time"

	"liquorpos/internal/model"

	"gorm.io/gorm"
)

// AdjustmentFilter enumerates the recognized ledger query fields.
// Zero values mean "no filter"; no filter at all returns every record.
type AdjustmentFilter struct {
	UPC       string
	Reason    model.Reason
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// LedgerRepository is the append-only data access contract for ledger entries.
// There are deliberately no Update or Delete methods: entries are immutable
// after creation, and corrections are made by inserting compensating entries.
type LedgerRepository interface {
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	// LatestForUPCTx reads the most recent entry for a product inside the
	// caller's transaction; returns (nil, nil) when the product has no history.
	LatestForUPCTx(tx *gorm.DB, upc string) (*model.LedgerEntry, error)
	LatestForUPC(ctx context.Context, upc string) (*model.LedgerEntry, error)
	List(ctx context.Context, filter AdjustmentFilter) ([]model.LedgerEntry, int64, error)
	SumDeltas(ctx context.Context, upc string) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) LatestForUPCTx(tx *gorm.DB, upc string) (*model.LedgerEntry, error) {
	return latestForUPC(tx, upc)
}

func (r *ledgerRepo) LatestForUPC(ctx context.Context, upc string) (*model.LedgerEntry, error) {
	return latestForUPC(r.db.WithContext(ctx), upc)
}

func latestForUPC(db *gorm.DB, upc string) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := db.Where("upc = ?", upc).Order("id DESC").First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) List(ctx context.Context, filter AdjustmentFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{})
	if filter.UPC != "" {
		q = q.Where("upc = ?", filter.UPC)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var entries []model.LedgerEntry
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepo) SumDeltas(ctx context.Context, upc string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("upc = ?", upc).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *ledgerRepo) DB() *gorm.DB { return r.db }
