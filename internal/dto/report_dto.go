package dto

import "github.com/shopspring/decimal"

type SalesBucketResponse struct {
	Bucket   string          `json:"bucket"`
	Count    int64           `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type SalesSummaryResponse struct {
	Start   string                `json:"start"`
	End     string                `json:"end"`
	Buckets []SalesBucketResponse `json:"buckets"`
	Count   int64                 `json:"count"`
	Total   decimal.Decimal       `json:"total"`
}

// ProfitAndLossResponse is the P&L statement for a date range.
type ProfitAndLossResponse struct {
	Start           string          `json:"start"`
	End             string          `json:"end"`
	GrossSales      decimal.Decimal `json:"gross_sales"`
	Returns         decimal.Decimal `json:"returns"`
	NetSales        decimal.Decimal `json:"net_sales"`
	TaxCollected    decimal.Decimal `json:"tax_collected"`
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	UnitsSold       int64           `json:"units_sold"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Payouts         decimal.Decimal `json:"payouts"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}
