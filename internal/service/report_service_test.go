package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/infra"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"
	"liquorpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// dbFixture wires the full stack over a throwaway SQLite file, the same way
// the composition root does. Reports aggregate with raw SQL, so their tests
// need the real store rather than the in-memory stubs.
type dbFixture struct {
	db           *gorm.DB
	ledgerRepo   repository.LedgerRepository
	productRepo  repository.ProductRepository
	tillRepo     repository.TillRepository
	inventory    service.InventoryService
	till         service.TillService
	transactions service.TransactionService
	reports      service.ReportService
	sessionID    uuid.UUID
	cashier      service.Actor
}

func newDBFixture(t *testing.T) *dbFixture {
	t.Helper()
	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	tillRepo := repository.NewTillRepository(db)
	reportRepo := repository.NewReportRepository(db)

	inventory := service.NewInventoryService(ledgerRepo, productRepo, service.DefaultLedgerPolicy())
	till := service.NewTillService(tillRepo)
	transactions := service.NewTransactionService(transactionRepo, inventory, till, tillRepo, productRepo,
		decimal.RequireFromString("0.08"))
	reports := service.NewReportService(reportRepo)

	ctx := context.Background()
	cashierUser := &model.User{Username: "sam", Name: "Sam", PasswordHash: "x", Role: "cashier", Active: true}
	require.NoError(t, userRepo.Create(ctx, cashierUser))

	open, err := till.Open(ctx, cashierUser.ID, dto.OpenTillRequest{
		Register:     1,
		OpeningFloat: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	sessionID, err := uuid.Parse(open.TillSessionID)
	require.NoError(t, err)

	return &dbFixture{
		db:           db,
		ledgerRepo:   ledgerRepo,
		productRepo:  productRepo,
		tillRepo:     tillRepo,
		inventory:    inventory,
		till:         till,
		transactions: transactions,
		reports:      reports,
		sessionID:    sessionID,
		cashier:      service.Actor{ID: cashierUser.ID, Name: cashierUser.Name},
	}
}

// stockProduct creates a non-taxable catalog row and seeds its opening
// balance through the ledger.
func (f *dbFixture) stockProduct(t *testing.T, upc, cost, price string, qty int) {
	t.Helper()
	require.NoError(t, f.productRepo.Create(context.Background(), &model.Product{
		UPC:         upc,
		Description: "bottle " + upc,
		Cost:        decimal.RequireFromString(cost),
		Price:       decimal.RequireFromString(price),
		Taxable:     false,
		Active:      true,
	}))
	_, err := f.inventory.ApplyAdjustment(context.Background(), dto.AdjustInventoryRequest{
		UPC: upc, Reason: "initial", Delta: qty,
	}, nil)
	require.NoError(t, err)
}

func (f *dbFixture) plRange(t *testing.T) (*dto.ProfitAndLossResponse, error) {
	t.Helper()
	return f.reports.ProfitAndLoss(context.Background(),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
}

func TestProfitAndLoss_SingleSale(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 24)

	_, err := f.transactions.RegisterSale(context.Background(), f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 3}},
		CashTendered:  decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	pl, err := f.plRange(t)
	require.NoError(t, err)
	assert.True(t, pl.GrossSales.Equal(decimal.RequireFromString("30")), pl.GrossSales.String())
	assert.True(t, pl.Returns.IsZero(), pl.Returns.String())
	assert.True(t, pl.NetSales.Equal(decimal.RequireFromString("30")), pl.NetSales.String())
	assert.True(t, pl.CostOfGoodsSold.Equal(decimal.RequireFromString("18")), pl.CostOfGoodsSold.String())
	assert.Equal(t, int64(3), pl.UnitsSold)
	assert.True(t, pl.GrossProfit.Equal(decimal.RequireFromString("12")), pl.GrossProfit.String())
	assert.True(t, pl.NetProfit.Equal(decimal.RequireFromString("12")), pl.NetProfit.String())
}

// A voided sale must vanish from the P&L entirely: the original drops out of
// gross sales, the compensating transaction must not surface as a return, and
// the sale's cost snapshots must not linger in COGS.
func TestProfitAndLoss_VoidedSaleNetsToZero(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 24)
	ctx := context.Background()

	sale, err := f.transactions.RegisterSale(ctx, f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 3}},
		CashTendered:  decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	_, err = f.transactions.VoidSale(ctx, mustParse(t, sale.ID), f.cashier, "rang up twice")
	require.NoError(t, err)

	pl, err := f.plRange(t)
	require.NoError(t, err)
	assert.True(t, pl.GrossSales.IsZero(), pl.GrossSales.String())
	assert.True(t, pl.Returns.IsZero(), pl.Returns.String())
	assert.True(t, pl.NetSales.IsZero(), pl.NetSales.String())
	assert.True(t, pl.CostOfGoodsSold.IsZero(), pl.CostOfGoodsSold.String())
	assert.Equal(t, int64(0), pl.UnitsSold)
	assert.True(t, pl.GrossProfit.IsZero(), pl.GrossProfit.String())
	assert.True(t, pl.NetProfit.IsZero(), pl.NetProfit.String())

	// the stock itself came back
	onHand, err := f.inventory.GetOnHand(ctx, "750")
	require.NoError(t, err)
	assert.Equal(t, 24, onHand)
}

// Ordinary customer returns are not compensating transactions and must keep
// reducing net sales.
func TestProfitAndLoss_CustomerReturnStillCounts(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 24)
	ctx := context.Background()

	_, err := f.transactions.RegisterSale(ctx, f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 3}},
		CashTendered:  decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)
	_, err = f.transactions.RegisterReturn(ctx, f.cashier, dto.RegisterReturnRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 1}},
	})
	require.NoError(t, err)

	pl, err := f.plRange(t)
	require.NoError(t, err)
	assert.True(t, pl.GrossSales.Equal(decimal.RequireFromString("30")), pl.GrossSales.String())
	assert.True(t, pl.Returns.Equal(decimal.RequireFromString("10")), pl.Returns.String())
	assert.True(t, pl.NetSales.Equal(decimal.RequireFromString("20")), pl.NetSales.String())
}

func TestDailySales_BucketsByDay(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 24)

	_, err := f.transactions.RegisterSale(context.Background(), f.cashier, dto.RegisterSaleRequest{
		TillSessionID: f.sessionID.String(),
		Items:         []dto.SaleItemRequest{{UPC: "750", Quantity: 2}},
		CashTendered:  decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	summary, err := f.reports.DailySales(context.Background(),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, int64(1), summary.Count)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("20")), summary.Total.String())
}
