package service

import (
	"context"
	"errors"
	"fmt"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger error taxonomy. Callers distinguish these with errors.Is; anything
// else is a storage failure and the whole adjustment has been rolled back.
var (
	ErrInvalidReason    = errors.New("reason is not one of the fixed adjustment reasons")
	ErrZeroDelta        = errors.New("delta must be a non-zero integer")
	ErrProductNotFound  = errors.New("product not found")
	ErrNegativeBalance  = errors.New("adjustment would drive the balance negative")
	ErrInvalidReference = errors.New("reference_transaction_id is not a valid UUID")
)

// Actor identifies the user applying an adjustment. Nil actors are allowed
// for system-generated entries (seed/test data).
type Actor struct {
	ID   uuid.UUID
	Name string
}

// AdjustmentInput is the full parameter set for one ledger adjustment.
type AdjustmentInput struct {
	UPC           string
	Reason        model.Reason
	Delta         int
	Cost          *decimal.Decimal
	Price         *decimal.Decimal
	TransactionID *uuid.UUID
	Note          *string
	Actor         *Actor
}

// LedgerPolicy makes the spec's two policy choices explicit configuration
// rather than silent behavior.
type LedgerPolicy struct {
	// AllowNegativeBalance permits quantity_after < 0; such entries are
	// flagged at warn level. When false the adjustment fails instead.
	AllowNegativeBalance bool
	// ImplicitCreate lists the reasons allowed to create a product on first
	// sight of its UPC, with a starting balance of zero.
	ImplicitCreate map[model.Reason]bool
}

// DefaultLedgerPolicy: only purchase and initial may create a product
// implicitly; negative balances are permitted but flagged.
func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{
		AllowNegativeBalance: true,
		ImplicitCreate: map[model.Reason]bool{
			model.ReasonPurchase: true,
			model.ReasonInitial:  true,
		},
	}
}

// InventoryService owns the per-product running balance. All quantity
// mutation routes through ApplyAdjustment — no other component writes
// quantity changes.
type InventoryService interface {
	ApplyAdjustment(ctx context.Context, req dto.AdjustInventoryRequest, actor *Actor) (*dto.LedgerEntryResponse, error)
	// ApplyAdjustmentTx joins an enclosing transaction so that multi-item
	// operations (a sale) commit all quantity changes or none of them.
	ApplyAdjustmentTx(tx *gorm.DB, in AdjustmentInput) (*model.LedgerEntry, error)
	GetOnHand(ctx context.Context, upc string) (int, error)
	ListAdjustments(ctx context.Context, filter repository.AdjustmentFilter) (*dto.AdjustmentListResponse, error)
	// VerifyBalance cross-checks the snapshot balance against the summed deltas.
	VerifyBalance(ctx context.Context, upc string) (*dto.BalanceCheckResponse, error)
}

type inventoryService struct {
	ledgerRepo  repository.LedgerRepository
	productRepo repository.ProductRepository
	policy      LedgerPolicy
}

func NewInventoryService(ledgerRepo repository.LedgerRepository, productRepo repository.ProductRepository, policy LedgerPolicy) InventoryService {
	return &inventoryService{ledgerRepo: ledgerRepo, productRepo: productRepo, policy: policy}
}

// ── ApplyAdjustment ───────────────────────────────────────────────────────────
// The read-compute-write sequence runs inside a single database transaction:
// two near-simultaneous adjustments for the same product are strictly ordered
// by the store instead of racing on a stale in-memory balance.

func (s *inventoryService) ApplyAdjustment(ctx context.Context, req dto.AdjustInventoryRequest, actor *Actor) (*dto.LedgerEntryResponse, error) {
	in := AdjustmentInput{
		UPC:    req.UPC,
		Reason: model.Reason(req.Reason),
		Delta:  req.Delta,
		Cost:   req.Cost,
		Price:  req.Price,
		Note:   req.Note,
		Actor:  actor,
	}
	if req.ReferenceTransactionID != nil {
		txID, err := uuid.Parse(*req.ReferenceTransactionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidReference, *req.ReferenceTransactionID)
		}
		in.TransactionID = &txID
	}

	var entry *model.LedgerEntry
	err := runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		e, err := s.ApplyAdjustmentTx(tx, in)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ledgerEntryToResponse(entry), nil
}

func (s *inventoryService) ApplyAdjustmentTx(tx *gorm.DB, in AdjustmentInput) (*model.LedgerEntry, error) {
	if in.UPC == "" {
		return nil, ErrProductNotFound
	}
	if !in.Reason.Valid() {
		return nil, ErrInvalidReason
	}
	if in.Delta == 0 {
		return nil, ErrZeroDelta
	}

	if _, err := s.productRepo.FindByUPCTx(tx, in.UPC); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if !s.policy.ImplicitCreate[in.Reason] {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, in.UPC)
		}
		if err := s.createImplicit(tx, in); err != nil {
			return nil, err
		}
	}

	// Current balance is the quantity_after of the latest entry; a product
	// with no history starts at zero.
	before := 0
	if latest, err := s.ledgerRepo.LatestForUPCTx(tx, in.UPC); err != nil {
		return nil, err
	} else if latest != nil {
		before = latest.QuantityAfter
	}

	after := before + in.Delta
	if after < 0 {
		if !s.policy.AllowNegativeBalance {
			return nil, fmt.Errorf("%w: %s would go to %d", ErrNegativeBalance, in.UPC, after)
		}
		log.Warn().
			Str("upc", in.UPC).
			Str("reason", string(in.Reason)).
			Int("delta", in.Delta).
			Int("quantity_after", after).
			Msg("negative on-hand balance")
	}

	entry := &model.LedgerEntry{
		UPC:            in.UPC,
		Reason:         in.Reason,
		Delta:          in.Delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		Cost:           in.Cost,
		Price:          in.Price,
		TransactionID:  in.TransactionID,
		Note:           in.Note,
	}
	if in.Actor != nil {
		id := in.Actor.ID
		name := in.Actor.Name
		entry.ActorID = &id
		entry.ActorName = &name
	}

	if err := s.ledgerRepo.CreateTx(tx, entry); err != nil {
		return nil, err
	}
	// Keep the denormalized catalog column in step, inside the same tx.
	if err := s.productRepo.AdjustOnHandTx(tx, in.UPC, in.Delta); err != nil {
		return nil, err
	}
	return entry, nil
}

// createImplicit registers a bare product so the adjustment can proceed.
// Cost/price snapshots from the adjustment seed the catalog values.
func (s *inventoryService) createImplicit(tx *gorm.DB, in AdjustmentInput) error {
	p := &model.Product{
		UPC:         in.UPC,
		Description: "(auto-created " + in.UPC + ")",
		Taxable:     true,
		Active:      true,
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	log.Info().Str("upc", in.UPC).Str("reason", string(in.Reason)).Msg("implicitly creating product")
	return s.productRepo.CreateTx(tx, p)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *inventoryService) GetOnHand(ctx context.Context, upc string) (int, error) {
	latest, err := s.ledgerRepo.LatestForUPC(ctx, upc)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.QuantityAfter, nil
}

// VerifyBalance compares the latest quantity_after with SUM(delta) over the
// product's full history. Every entry snapshots before and after, so the two
// figures agree unless something wrote around the ledger.
func (s *inventoryService) VerifyBalance(ctx context.Context, upc string) (*dto.BalanceCheckResponse, error) {
	latest, err := s.ledgerRepo.LatestForUPC(ctx, upc)
	if err != nil {
		return nil, err
	}
	sum, err := s.ledgerRepo.SumDeltas(ctx, upc)
	if err != nil {
		return nil, err
	}
	onHand := 0
	if latest != nil {
		onHand = latest.QuantityAfter
	}
	if int64(onHand) != sum {
		log.Error().
			Str("upc", upc).
			Int("on_hand", onHand).
			Int64("sum_deltas", sum).
			Msg("ledger chain inconsistency")
	}
	return &dto.BalanceCheckResponse{
		UPC:        upc,
		OnHand:     onHand,
		SumDeltas:  sum,
		Consistent: int64(onHand) == sum,
	}, nil
}

func (s *inventoryService) ListAdjustments(ctx context.Context, filter repository.AdjustmentFilter) (*dto.AdjustmentListResponse, error) {
	if filter.Reason != "" && !filter.Reason.Valid() {
		return nil, ErrInvalidReason
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	entries, total, err := s.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *ledgerEntryToResponse(&entries[i]))
	}
	return &dto.AdjustmentListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ComputeSummary aggregates a set of ledger entries. Pure function, no I/O.
func ComputeSummary(entries []model.LedgerEntry) dto.AdjustmentSummary {
	var s dto.AdjustmentSummary
	for _, e := range entries {
		if e.Delta > 0 {
			s.TotalIn += e.Delta
			s.CountIn++
		} else if e.Delta < 0 {
			s.TotalOut += -e.Delta
			s.CountOut++
		}
		s.Net += e.Delta
	}
	return s
}

func ledgerEntryToResponse(e *model.LedgerEntry) *dto.LedgerEntryResponse {
	resp := &dto.LedgerEntryResponse{
		ID:             e.ID,
		UPC:            e.UPC,
		Reason:         string(e.Reason),
		Delta:          e.Delta,
		QuantityBefore: e.QuantityBefore,
		QuantityAfter:  e.QuantityAfter,
		Cost:           e.Cost,
		Price:          e.Price,
		Note:           e.Note,
		ActorName:      e.ActorName,
		CreatedAt:      e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.TransactionID != nil {
		id := e.TransactionID.String()
		resp.TransactionID = &id
	}
	if e.ActorID != nil {
		id := e.ActorID.String()
		resp.ActorID = &id
	}
	return resp
}
