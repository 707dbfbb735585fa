package repository

import (
	"context"
	"time"

	"liquorpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter defines filters for listing transactions.
type TransactionFilter struct {
	Type          string
	Status        string
	TillSessionID *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
}

type TransactionRepository interface {
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error)
	// MarkVoidedTx flips status; the financial reversal lives in the
	// compensating transaction, not in an edit of this row's amounts.
	MarkVoidedTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items").Preload("Cashier").First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Preload("Items")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TillSessionID != nil {
		q = q.Where("till_session_id = ?", *filter.TillSessionID)
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
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var txns []model.Transaction
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&txns).Error
	return txns, total, err
}

func (r *transactionRepo) MarkVoidedTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Transaction{}).Where("id = ?", id).Update("status", "voided").Error
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }
