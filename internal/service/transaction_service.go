package service

import (
	"context"
	"errors"
	"fmt"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInsufficientPayment = errors.New("cash tendered is less than the sale total")
	ErrNotVoidable         = errors.New("only completed sales can be voided")
)

type TransactionService interface {
	RegisterSale(ctx context.Context, cashier Actor, req dto.RegisterSaleRequest) (*dto.TransactionResponse, error)
	RegisterReturn(ctx context.Context, cashier Actor, req dto.RegisterReturnRequest) (*dto.TransactionResponse, error)
	RegisterPayout(ctx context.Context, cashier Actor, req dto.RegisterPayoutRequest) (*dto.TransactionResponse, error)
	// VoidSale reverses a completed sale with compensating ledger entries and
	// an inverse till movement — history is never rewritten.
	VoidSale(ctx context.Context, id uuid.UUID, cashier Actor, note string) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter repository.TransactionFilter) (*dto.TransactionListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)
}

type transactionService struct {
	repo        repository.TransactionRepository
	inventory   InventoryService
	till        TillService
	tillRepo    repository.TillRepository
	productRepo repository.ProductRepository
	taxRate     decimal.Decimal
}

func NewTransactionService(
	repo repository.TransactionRepository,
	inventory InventoryService,
	till TillService,
	tillRepo repository.TillRepository,
	productRepo repository.ProductRepository,
	taxRate decimal.Decimal,
) TransactionService {
	return &transactionService{
		repo:        repo,
		inventory:   inventory,
		till:        till,
		tillRepo:    tillRepo,
		productRepo: productRepo,
		taxRate:     taxRate,
	}
}

type resolvedItem struct {
	upc         string
	description string
	quantity    int
	unitCost    decimal.Decimal
	unitPrice   decimal.Decimal
	subtotal    decimal.Decimal
	taxable     bool
}

// resolveItems fetches each product and computes line subtotals plus the tax
// on taxable lines. Runs as a pre-flight outside the transaction.
func (s *transactionService) resolveItems(ctx context.Context, items []dto.SaleItemRequest) ([]resolvedItem, decimal.Decimal, decimal.Decimal, error) {
	var resolved []resolvedItem
	subtotal := decimal.Zero
	tax := decimal.Zero

	for _, item := range items {
		p, err := s.productRepo.FindByUPC(ctx, item.UPC)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", ErrProductNotFound, item.UPC)
			}
			return nil, decimal.Zero, decimal.Zero, err
		}
		if !p.Active {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("product %s is inactive", p.UPC)
		}

		lineSubtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		if p.Taxable {
			tax = tax.Add(lineSubtotal.Mul(s.taxRate))
		}
		resolved = append(resolved, resolvedItem{
			upc:         p.UPC,
			description: p.Description,
			quantity:    item.Quantity,
			unitCost:    p.Cost,
			unitPrice:   p.Price,
			subtotal:    lineSubtotal,
			taxable:     p.Taxable,
		})
	}
	return resolved, subtotal, tax.Round(2), nil
}

// ── RegisterSale ──────────────────────────────────────────────────────────────
// One ACID transaction: create the transaction with its items, apply one
// `sale` ledger adjustment per item, record the cash movement. A mid-sale
// failure leaves no partial quantity changes.

func (s *transactionService) RegisterSale(ctx context.Context, cashier Actor, req dto.RegisterSaleRequest) (*dto.TransactionResponse, error) {
	sessionID, err := uuid.Parse(req.TillSessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid till_session_id: %w", err)
	}
	if err := s.till.RequireOpenSession(ctx, sessionID); err != nil {
		return nil, err
	}

	resolved, subtotal, tax, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	total := subtotal.Add(tax)
	if req.CashTendered.LessThan(total) {
		return nil, ErrInsufficientPayment
	}
	change := req.CashTendered.Sub(total)

	txn := model.Transaction{
		ID:            uuid.New(),
		Type:          "sale",
		TillSessionID: sessionID,
		CashierID:     cashier.ID,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Status:        "completed",
	}
	for _, r := range resolved {
		txn.Items = append(txn.Items, model.TransactionItem{
			UPC:         r.upc,
			Description: r.description,
			Quantity:    r.quantity,
			UnitPrice:   r.unitPrice,
			Subtotal:    r.subtotal,
			Taxable:     r.taxable,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &txn); err != nil {
			return err
		}
		for _, r := range resolved {
			cost, price := r.unitCost, r.unitPrice
			txnID := txn.ID
			if _, err := s.inventory.ApplyAdjustmentTx(tx, AdjustmentInput{
				UPC:           r.upc,
				Reason:        model.ReasonSale,
				Delta:         -r.quantity,
				Cost:          &cost,
				Price:         &price,
				TransactionID: &txnID,
				Actor:         &cashier,
			}); err != nil {
				return err
			}
		}
		return s.tillRepo.CreateMovementTx(tx, &model.TillMovement{
			TillSessionID: sessionID,
			Type:          "sale",
			Amount:        total,
			Description:   fmt.Sprintf("sale %s", txn.ID),
			ReferenceID:   &txn.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	resp := transactionToResponse(&txn)
	resp.Change = &change
	return resp, nil
}

// ── RegisterReturn ────────────────────────────────────────────────────────────

func (s *transactionService) RegisterReturn(ctx context.Context, cashier Actor, req dto.RegisterReturnRequest) (*dto.TransactionResponse, error) {
	sessionID, err := uuid.Parse(req.TillSessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid till_session_id: %w", err)
	}
	if err := s.till.RequireOpenSession(ctx, sessionID); err != nil {
		return nil, err
	}

	resolved, subtotal, tax, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	total := subtotal.Add(tax)

	txn := model.Transaction{
		ID:            uuid.New(),
		Type:          "return",
		TillSessionID: sessionID,
		CashierID:     cashier.ID,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Status:        "completed",
		Note:          req.Note,
	}
	for _, r := range resolved {
		txn.Items = append(txn.Items, model.TransactionItem{
			UPC:         r.upc,
			Description: r.description,
			Quantity:    r.quantity,
			UnitPrice:   r.unitPrice,
			Subtotal:    r.subtotal,
			Taxable:     r.taxable,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &txn); err != nil {
			return err
		}
		for _, r := range resolved {
			cost, price := r.unitCost, r.unitPrice
			txnID := txn.ID
			if _, err := s.inventory.ApplyAdjustmentTx(tx, AdjustmentInput{
				UPC:           r.upc,
				Reason:        model.ReasonReturn,
				Delta:         r.quantity,
				Cost:          &cost,
				Price:         &price,
				TransactionID: &txnID,
				Actor:         &cashier,
			}); err != nil {
				return err
			}
		}
		return s.tillRepo.CreateMovementTx(tx, &model.TillMovement{
			TillSessionID: sessionID,
			Type:          "refund",
			Amount:        total.Neg(),
			Description:   fmt.Sprintf("return %s", txn.ID),
			ReferenceID:   &txn.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return transactionToResponse(&txn), nil
}

// ── RegisterPayout ────────────────────────────────────────────────────────────
// Cash out of the drawer with no inventory effect.

func (s *transactionService) RegisterPayout(ctx context.Context, cashier Actor, req dto.RegisterPayoutRequest) (*dto.TransactionResponse, error) {
	sessionID, err := uuid.Parse(req.TillSessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid till_session_id: %w", err)
	}
	if err := s.till.RequireOpenSession(ctx, sessionID); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		ID:            uuid.New(),
		Type:          "payout",
		TillSessionID: sessionID,
		CashierID:     cashier.ID,
		Subtotal:      req.Amount,
		Tax:           decimal.Zero,
		Total:         req.Amount,
		Status:        "completed",
		Note:          &req.Description,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &txn); err != nil {
			return err
		}
		return s.tillRepo.CreateMovementTx(tx, &model.TillMovement{
			TillSessionID: sessionID,
			Type:          "payout",
			Amount:        req.Amount.Neg(),
			Description:   req.Description,
			ReferenceID:   &txn.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return transactionToResponse(&txn), nil
}

// ── VoidSale ──────────────────────────────────────────────────────────────────

func (s *transactionService) VoidSale(ctx context.Context, id uuid.UUID, cashier Actor, note string) (*dto.TransactionResponse, error) {
	original, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.Type != "sale" || original.Status != "completed" {
		return nil, ErrNotVoidable
	}

	comp := model.Transaction{
		ID:            uuid.New(),
		Type:          "return",
		TillSessionID: original.TillSessionID,
		CashierID:     cashier.ID,
		Subtotal:      original.Subtotal,
		Tax:           original.Tax,
		Total:         original.Total,
		Status:        "completed",
		VoidOf:        &original.ID,
		Note:          &note,
	}
	for _, item := range original.Items {
		comp.Items = append(comp.Items, model.TransactionItem{
			UPC:         item.UPC,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			Taxable:     item.Taxable,
		})
	}

	voidNote := fmt.Sprintf("void of sale %s", original.ID)
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.MarkVoidedTx(tx, original.ID); err != nil {
			return err
		}
		if err := s.repo.CreateTx(tx, &comp); err != nil {
			return err
		}
		for _, item := range original.Items {
			compID := comp.ID
			n := voidNote
			if _, err := s.inventory.ApplyAdjustmentTx(tx, AdjustmentInput{
				UPC:           item.UPC,
				Reason:        model.ReasonReturn,
				Delta:         item.Quantity,
				TransactionID: &compID,
				Note:          &n,
				Actor:         &cashier,
			}); err != nil {
				return err
			}
		}
		return s.tillRepo.CreateMovementTx(tx, &model.TillMovement{
			TillSessionID: original.TillSessionID,
			Type:          "refund",
			Amount:        original.Total.Neg(),
			Description:   voidNote,
			ReferenceID:   &comp.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return transactionToResponse(&comp), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *transactionService) List(ctx context.Context, filter repository.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, *transactionToResponse(&txns[i]))
	}
	return &dto.TransactionListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *transactionService) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return transactionToResponse(txn), nil
}

func transactionToResponse(t *model.Transaction) *dto.TransactionResponse {
	items := make([]dto.TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, dto.TransactionItemResponse{
			UPC:         item.UPC,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	cashierName := ""
	if t.Cashier != nil {
		cashierName = t.Cashier.Name
	}
	return &dto.TransactionResponse{
		ID:            t.ID.String(),
		Type:          t.Type,
		TillSessionID: t.TillSessionID.String(),
		CashierID:     t.CashierID.String(),
		CashierName:   cashierName,
		Items:         items,
		Subtotal:      t.Subtotal,
		Tax:           t.Tax,
		Total:         t.Total,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
