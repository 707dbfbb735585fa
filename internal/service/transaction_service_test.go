package service_test

import (
	"context"
	"testing"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"
	"liquorpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubTransactionRepo struct {
	txns map[uuid.UUID]*model.Transaction
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{txns: make(map[uuid.UUID]*model.Transaction)}
}

func (r *stubTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.txns[t.ID] = t
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTransactionRepo) List(_ context.Context, filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) MarkVoidedTx(_ *gorm.DB, id uuid.UUID) error {
	t, ok := r.txns[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = "voided"
	return nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

type stubTillRepo struct {
	sessions  map[uuid.UUID]*model.TillSession
	movements []model.TillMovement
}

func newStubTillRepo() *stubTillRepo {
	return &stubTillRepo{sessions: make(map[uuid.UUID]*model.TillSession)}
}

func (r *stubTillRepo) CreateSession(_ context.Context, s *model.TillSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubTillRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.TillSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubTillRepo) FindOpenSessionByRegister(_ context.Context, register int) (*model.TillSession, error) {
	for _, s := range r.sessions {
		if s.Register == register && s.Status == "open" {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTillRepo) UpdateSession(_ context.Context, s *model.TillSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubTillRepo) ListSessions(_ context.Context, _, _ int) ([]model.TillSession, int64, error) {
	var out []model.TillSession
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubTillRepo) CreateMovement(_ context.Context, m *model.TillMovement) error {
	return r.CreateMovementTx(nil, m)
}

func (r *stubTillRepo) CreateMovementTx(_ *gorm.DB, m *model.TillMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubTillRepo) SumMovements(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.TillSessionID == sessionID {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

func (r *stubTillRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.TillMovement, error) {
	var out []model.TillMovement
	for _, m := range r.movements {
		if m.TillSessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.TillRepository = (*stubTillRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type txnFixture struct {
	svc       service.TransactionService
	inventory service.InventoryService
	till      service.TillService
	ledger    *stubLedgerRepo
	products  *stubProductRepo
	tillRepo  *stubTillRepo
	txnRepo   *stubTransactionRepo
	sessionID uuid.UUID
	cashier   service.Actor
}

func newTxnFixture(t *testing.T) *txnFixture {
	t.Helper()
	ledger := newStubLedgerRepo()
	products := newStubProductRepo()
	tillRepo := newStubTillRepo()
	txnRepo := newStubTransactionRepo()

	inventory := service.NewInventoryService(ledger, products, service.DefaultLedgerPolicy())
	till := service.NewTillService(tillRepo)
	svc := service.NewTransactionService(txnRepo, inventory, till, tillRepo, products,
		decimal.RequireFromString("0.08"))

	cashier := service.Actor{ID: uuid.New(), Name: "Sam"}
	open, err := till.Open(context.Background(), cashier.ID, dto.OpenTillRequest{
		Register:     1,
		OpeningFloat: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	sessionID, err := uuid.Parse(open.TillSessionID)
	require.NoError(t, err)

	return &txnFixture{
		svc: svc, inventory: inventory, till: till,
		ledger: ledger, products: products, tillRepo: tillRepo, txnRepo: txnRepo,
		sessionID: sessionID, cashier: cashier,
	}
}

func (f *txnFixture) stock(t *testing.T, upc, price string, taxable bool, qty int) {
	t.Helper()
	f.products.products[upc] = &model.Product{
		UPC:         upc,
		Description: "bottle " + upc,
		Price:       decimal.RequireFromString(price),
		Cost:        decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		Taxable:     taxable,
		Active:      true,
	}
	_, err := f.inventory.ApplyAdjustment(context.Background(), dto.AdjustInventoryRequest{
		UPC: upc, Reason: "initial", Delta: qty,
	}, nil)
	require.NoError(t, err)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRegisterSale_AppliesLedgerAndTill(t *testing.T) {
	f := newTxnFixture(t)
	f.stock(t, "750", "10.00", true, 24)
	ctx := context.Background()

	resp, err := f.svc.RegisterSale(ctx, f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 2}},
		CashTendered:  decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)

	// 2 × 10.00 = 20.00 subtotal, 8% tax on the taxable line
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("20.00")), resp.Subtotal.String())
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("1.60")), resp.Tax.String())
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("21.60")), resp.Total.String())
	require.NotNil(t, resp.Change)
	assert.True(t, resp.Change.Equal(decimal.RequireFromString("3.40")), resp.Change.String())

	// one sale entry after the initial seed; chain holds
	require.Len(t, f.ledger.entries, 2)
	sale := f.ledger.entries[1]
	assert.Equal(t, model.ReasonSale, sale.Reason)
	assert.Equal(t, -2, sale.Delta)
	assert.Equal(t, 24, sale.QuantityBefore)
	assert.Equal(t, 22, sale.QuantityAfter)
	require.NotNil(t, sale.TransactionID)
	assert.Equal(t, resp.ID, sale.TransactionID.String())

	// drawer took the full total
	sum, err := f.tillRepo.SumMovements(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("21.60")), sum.String())
}

func TestRegisterSale_NonTaxableLine(t *testing.T) {
	f := newTxnFixture(t)
	f.stock(t, "icebag", "3.00", false, 50)

	resp, err := f.svc.RegisterSale(context.Background(), f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "icebag", Quantity: 3}},
		CashTendered:  decimal.RequireFromString("9.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Tax.IsZero(), resp.Tax.String())
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("9.00")))
}

func TestRegisterSale_InsufficientPayment(t *testing.T) {
	f := newTxnFixture(t)
	f.stock(t, "750", "10.00", true, 24)

	_, err := f.svc.RegisterSale(context.Background(), f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 2}},
		CashTendered:  decimal.RequireFromString("20.00"), // total is 21.60
	})
	assert.ErrorIs(t, err, service.ErrInsufficientPayment)
	// nothing was written
	assert.Len(t, f.ledger.entries, 1)
	assert.Empty(t, f.txnRepo.txns)
}

func TestRegisterSale_RequiresOpenTill(t *testing.T) {
	f := newTxnFixture(t)
	f.stock(t, "750", "10.00", true, 24)

	// close the drawer first
	_, err := f.till.Close(context.Background(), dto.CloseTillRequest{
		TillSessionID: f.sessionID.String(),
		CountedCash:   decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	_, err = f.svc.RegisterSale(context.Background(), f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 1}},
		CashTendered:  decimal.RequireFromString("20.00"),
	})
	assert.ErrorIs(t, err, service.ErrTillNotOpen)
}

func TestRegisterReturn_RestocksAndRefunds(t *testing.T) {
	f := newTxnFixture(t)
	f.stock(t, "750", "10.00", true, 24)

	_, err := f.svc.RegisterReturn(context.Background(), f.cashier, dto.RegisterReturnRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 1}},
	})
	require.NoError(t, err)

	entry := f.ledger.entries[len(f.ledger.entries)-1]
	assert.Equal(t, model.ReasonReturn, entry.Reason)
	assert.Equal(t, 1, entry.Delta)
	assert.Equal(t, 25, entry.QuantityAfter)

	// refund leaves the drawer
	sum, err := f.tillRepo.SumMovements(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.True(t, sum.IsNegative(), sum.String())
}

func TestVoidSale_CompensatesEverything(t *testing.T) {
	f := newTxnFixture(t)
	f.stock(t, "750", "10.00", true, 24)
	ctx := context.Background()

	sale, err := f.svc.RegisterSale(ctx, f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 3}},
		CashTendered:  decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)
	saleID, err := uuid.Parse(sale.ID)
	require.NoError(t, err)

	comp, err := f.svc.VoidSale(ctx, saleID, f.cashier, "customer walked out")
	require.NoError(t, err)

	// original flipped to voided, compensating return links back to it
	original := f.txnRepo.txns[saleID]
	assert.Equal(t, "voided", original.Status)
	compTxn := f.txnRepo.txns[mustParse(t, comp.ID)]
	require.NotNil(t, compTxn.VoidOf)
	assert.Equal(t, saleID, *compTxn.VoidOf)
	assert.Equal(t, "return", compTxn.Type)

	// stock is back where it started and the chain is intact
	onHand, err := f.inventory.GetOnHand(ctx, "750")
	require.NoError(t, err)
	assert.Equal(t, 24, onHand)
	last := f.ledger.entries[len(f.ledger.entries)-1]
	assert.Equal(t, model.ReasonReturn, last.Reason)
	assert.Equal(t, 3, last.Delta)

	// cash netted out to zero movements
	sum, err := f.tillRepo.SumMovements(ctx, f.sessionID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero(), sum.String())

	// a void cannot be voided again
	_, err = f.svc.VoidSale(ctx, saleID, f.cashier, "twice")
	assert.ErrorIs(t, err, service.ErrNotVoidable)
}

func TestRegisterPayout_NoInventoryEffect(t *testing.T) {
	f := newTxnFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterPayout(ctx, f.cashier, dto.RegisterPayoutRequest{
		TillSessionID: f.sessionID.String(),
		Amount:        decimal.RequireFromString("40.00"),
		Description:   "beer distributor COD",
	})
	require.NoError(t, err)

	assert.Empty(t, f.ledger.entries)
	sum, err := f.tillRepo.SumMovements(ctx, f.sessionID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("-40.00")), sum.String())
}

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
