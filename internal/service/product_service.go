package service

import (
	"context"
	"errors"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"

	"gorm.io/gorm"
)

var ErrDuplicateUPC = errors.New("a product with this UPC already exists")

// ProductService defines the business logic contract for the catalog.
// Quantity changes never happen here — they route through InventoryService.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest, actor *Actor) (*dto.ProductResponse, error)
	GetByUPC(ctx context.Context, upc string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, upc string, req dto.UpdateProductRequest, actor *Actor) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, upc string) error
	Reactivate(ctx context.Context, upc string) error
	ListPriceHistory(ctx context.Context, upc string) ([]dto.PriceHistoryResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	inventory InventoryService
}

func NewProductService(repo repository.ProductRepository, inventory InventoryService) ProductService {
	return &productService{repo: repo, inventory: inventory}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest, actor *Actor) (*dto.ProductResponse, error) {
	if existing, err := s.repo.FindByUPC(ctx, req.UPC); err == nil && existing != nil {
		return nil, ErrDuplicateUPC
	}

	taxable := true
	if req.Taxable != nil {
		taxable = *req.Taxable
	}
	p := &model.Product{
		UPC:         req.UPC,
		Description: req.Description,
		Category:    req.Category,
		Cost:        req.Cost,
		Price:       req.Price,
		Taxable:     taxable,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Seed stock goes through the ledger so the audit trail starts at entry one.
	if req.InitialQuantity > 0 {
		cost := req.Cost
		price := req.Price
		_, err := s.inventory.ApplyAdjustment(ctx, dto.AdjustInventoryRequest{
			UPC:    req.UPC,
			Reason: string(model.ReasonInitial),
			Delta:  req.InitialQuantity,
			Cost:   &cost,
			Price:  &price,
		}, actor)
		if err != nil {
			return nil, err
		}
		p.OnHand = req.InitialQuantity
	}

	return productToResponse(p), nil
}

func (s *productService) GetByUPC(ctx context.Context, upc string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByUPC(ctx, upc)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, upc string, req dto.UpdateProductRequest, actor *Actor) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByUPC(ctx, upc)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	priceChanged := (req.Cost != nil && !req.Cost.Equal(p.Cost)) ||
		(req.Price != nil && !req.Price.Equal(p.Price))
	oldCost, oldPrice := p.Cost, p.Price

	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Taxable != nil {
		p.Taxable = *req.Taxable
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if priceChanged {
		h := &model.PriceHistory{
			UPC:      upc,
			OldCost:  oldCost,
			NewCost:  p.Cost,
			OldPrice: oldPrice,
			NewPrice: p.Price,
		}
		if actor != nil {
			name := actor.Name
			h.ChangedBy = &name
		}
		if err := s.repo.CreatePriceHistory(ctx, h); err != nil {
			return nil, err
		}
	}

	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, upc string) error {
	return s.repo.Deactivate(ctx, upc)
}

func (s *productService) Reactivate(ctx context.Context, upc string) error {
	return s.repo.Reactivate(ctx, upc)
}

func (s *productService) ListPriceHistory(ctx context.Context, upc string) ([]dto.PriceHistoryResponse, error) {
	history, err := s.repo.ListPriceHistory(ctx, upc)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceHistoryResponse, 0, len(history))
	for _, h := range history {
		items = append(items, dto.PriceHistoryResponse{
			ID:        h.ID,
			UPC:       h.UPC,
			OldCost:   h.OldCost,
			NewCost:   h.NewCost,
			OldPrice:  h.OldPrice,
			NewPrice:  h.NewPrice,
			ChangedBy: h.ChangedBy,
			CreatedAt: h.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return items, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		UPC:         p.UPC,
		Description: p.Description,
		Category:    p.Category,
		Cost:        p.Cost,
		Price:       p.Price,
		Taxable:     p.Taxable,
		OnHand:      p.OnHand,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
