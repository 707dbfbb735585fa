package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SalesBucket is one aggregation row. Amounts are scanned as TEXT and parsed
// into decimals by the report service — SQLite stores NUMERIC loosely.
type SalesBucket struct {
	Bucket   string
	Count    int64
	Subtotal string
	Tax      string
	Total    string
}

// CostOfGoodsRow aggregates the cost snapshots of sale ledger entries.
type CostOfGoodsRow struct {
	Units int64
	Cost  string
}

type ReportRepository interface {
	// SalesByBucket groups completed transactions of the given type by the
	// supplied strftime format ("%H" = hour of day, "%Y-%m-%d" = day,
	// "%Y-%W" = ISO-ish week).
	SalesByBucket(ctx context.Context, txType, bucketFormat string, start, end time.Time) ([]SalesBucket, error)
	// SalesTotal returns a single bucket covering the whole range.
	SalesTotal(ctx context.Context, txType string, start, end time.Time) (*SalesBucket, error)
	// CostOfGoodsSold sums cost * |delta| over sale ledger entries in range,
	// skipping entries that belong to voided transactions.
	CostOfGoodsSold(ctx context.Context, start, end time.Time) (*CostOfGoodsRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesByBucket(ctx context.Context, txType, bucketFormat string, start, end time.Time) ([]SalesBucket, error) {
	var rows []SalesBucket
	err := r.db.WithContext(ctx).Raw(`
		SELECT strftime(?, created_at)                 AS bucket,
		       COUNT(*)                                AS count,
		       CAST(COALESCE(SUM(subtotal), 0) AS TEXT) AS subtotal,
		       CAST(COALESCE(SUM(tax), 0) AS TEXT)      AS tax,
		       CAST(COALESCE(SUM(total), 0) AS TEXT)    AS total
		FROM transactions
		WHERE type = ? AND status = 'completed' AND void_of IS NULL
		  AND created_at >= ? AND created_at < ?
		GROUP BY bucket
		ORDER BY bucket ASC`,
		bucketFormat, txType, start, end).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) SalesTotal(ctx context.Context, txType string, start, end time.Time) (*SalesBucket, error) {
	var row SalesBucket
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)                                 AS count,
		       CAST(COALESCE(SUM(subtotal), 0) AS TEXT) AS subtotal,
		       CAST(COALESCE(SUM(tax), 0) AS TEXT)      AS tax,
		       CAST(COALESCE(SUM(total), 0) AS TEXT)    AS total
		FROM transactions
		WHERE type = ? AND status = 'completed' AND void_of IS NULL
		  AND created_at >= ? AND created_at < ?`,
		txType, start, end).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *reportRepo) CostOfGoodsSold(ctx context.Context, start, end time.Time) (*CostOfGoodsRow, error) {
	var row CostOfGoodsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(-delta), 0)                        AS units,
		       CAST(COALESCE(SUM(cost * -delta), 0) AS TEXT)   AS cost
		FROM ledger_entries
		WHERE reason = 'sale' AND cost IS NOT NULL
		  AND created_at >= ? AND created_at < ?
		  AND NOT EXISTS (
		      SELECT 1 FROM transactions t
		      WHERE t.id = ledger_entries.transaction_id AND t.status = 'voided'
		  )`,
		start, end).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
