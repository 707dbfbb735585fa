package service

import (
	"context"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	HourlySales(ctx context.Context, day time.Time) (*dto.SalesSummaryResponse, error)
	DailySales(ctx context.Context, start, end time.Time) (*dto.SalesSummaryResponse, error)
	WeeklySales(ctx context.Context, start, end time.Time) (*dto.SalesSummaryResponse, error)
	ProfitAndLoss(ctx context.Context, start, end time.Time) (*dto.ProfitAndLossResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) HourlySales(ctx context.Context, day time.Time) (*dto.SalesSummaryResponse, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return s.bucketed(ctx, "%H", start, end)
}

func (s *reportService) DailySales(ctx context.Context, start, end time.Time) (*dto.SalesSummaryResponse, error) {
	return s.bucketed(ctx, "%Y-%m-%d", start, end)
}

func (s *reportService) WeeklySales(ctx context.Context, start, end time.Time) (*dto.SalesSummaryResponse, error) {
	return s.bucketed(ctx, "%Y-%W", start, end)
}

func (s *reportService) bucketed(ctx context.Context, format string, start, end time.Time) (*dto.SalesSummaryResponse, error) {
	rows, err := s.repo.SalesByBucket(ctx, "sale", format, start, end)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesSummaryResponse{
		Start:   start.Format("2006-01-02T15:04:05Z"),
		End:     end.Format("2006-01-02T15:04:05Z"),
		Buckets: make([]dto.SalesBucketResponse, 0, len(rows)),
		Total:   decimal.Zero,
	}
	for _, row := range rows {
		b := dto.SalesBucketResponse{
			Bucket:   row.Bucket,
			Count:    row.Count,
			Subtotal: parseAmount(row.Subtotal),
			Tax:      parseAmount(row.Tax),
			Total:    parseAmount(row.Total),
		}
		resp.Buckets = append(resp.Buckets, b)
		resp.Count += row.Count
		resp.Total = resp.Total.Add(b.Total)
	}
	return resp, nil
}

func (s *reportService) ProfitAndLoss(ctx context.Context, start, end time.Time) (*dto.ProfitAndLossResponse, error) {
	sales, err := s.repo.SalesTotal(ctx, "sale", start, end)
	if err != nil {
		return nil, err
	}
	returns, err := s.repo.SalesTotal(ctx, "return", start, end)
	if err != nil {
		return nil, err
	}
	payouts, err := s.repo.SalesTotal(ctx, "payout", start, end)
	if err != nil {
		return nil, err
	}
	cogs, err := s.repo.CostOfGoodsSold(ctx, start, end)
	if err != nil {
		return nil, err
	}

	grossSales := parseAmount(sales.Subtotal)
	returned := parseAmount(returns.Subtotal)
	netSales := grossSales.Sub(returned)
	costOfGoods := parseAmount(cogs.Cost)
	grossProfit := netSales.Sub(costOfGoods)
	paidOut := parseAmount(payouts.Total)

	return &dto.ProfitAndLossResponse{
		Start:           start.Format("2006-01-02T15:04:05Z"),
		End:             end.Format("2006-01-02T15:04:05Z"),
		GrossSales:      grossSales,
		Returns:         returned,
		NetSales:        netSales,
		TaxCollected:    parseAmount(sales.Tax),
		CostOfGoodsSold: costOfGoods,
		UnitsSold:       cogs.Units,
		GrossProfit:     grossProfit,
		Payouts:         paidOut,
		NetProfit:       grossProfit.Sub(paidOut),
	}, nil
}

// parseAmount tolerates the loose TEXT casts coming back from SQLite
// aggregates; anything unparseable counts as zero.
func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
