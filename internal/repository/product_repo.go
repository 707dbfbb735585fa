package repository

import (
	"context"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByUPC(ctx context.Context, upc string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, upc string) error
	Reactivate(ctx context.Context, upc string) error

	// Used inside ledger transactions — callers must pass the tx instance
	FindByUPCTx(tx *gorm.DB, upc string) (*model.Product, error)
	CreateTx(tx *gorm.DB, p *model.Product) error
	AdjustOnHandTx(tx *gorm.DB, upc string, delta int) error

	CreatePriceHistory(ctx context.Context, h *model.PriceHistory) error
	ListPriceHistory(ctx context.Context, upc string) ([]model.PriceHistory, error)

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByUPC(ctx context.Context, upc string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("upc = ?", upc).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByUPCTx(tx *gorm.DB, upc string) (*model.Product, error) {
	var p model.Product
	err := tx.Where("upc = ?", upc).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive only, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = ?", false)
	case "all":
		// no filter
	default:
		q = q.Where("active = ?", true)
	}

	if filter.Search != "" {
		q = q.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("description ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Deactivate(ctx context.Context, upc string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("upc = ?", upc).Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, upc string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("upc = ?", upc).Update("active", true).Error
}

func (r *productRepo) AdjustOnHandTx(tx *gorm.DB, upc string, delta int) error {
	return tx.Model(&model.Product{}).Where("upc = ?", upc).
		Update("on_hand", gorm.Expr("on_hand + ?", delta)).Error
}

func (r *productRepo) CreatePriceHistory(ctx context.Context, h *model.PriceHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *productRepo) ListPriceHistory(ctx context.Context, upc string) ([]model.PriceHistory, error) {
	var history []model.PriceHistory
	err := r.db.WithContext(ctx).Where("upc = ?", upc).Order("created_at DESC").Find(&history).Error
	return history, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }
