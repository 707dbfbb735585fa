package dto

import "github.com/shopspring/decimal"

// AdjustInventoryRequest is the body of POST /v1/inventory/adjust.
// Delta is signed: positive for stock-in reasons (purchase, return, initial),
// negative for stock-out (sale, damage, theft). Sign-by-reason is caller
// policy — the ledger does not hard-enforce it.
type AdjustInventoryRequest struct {
	UPC                    string           `json:"upc" validate:"required"`
	Reason                 string           `json:"reason" validate:"required"`
	Delta                  int              `json:"delta" validate:"required"`
	Cost                   *decimal.Decimal `json:"cost,omitempty"`
	Price                  *decimal.Decimal `json:"price,omitempty"`
	Note                   *string          `json:"note,omitempty"`
	ReferenceTransactionID *string          `json:"reference_transaction_id,omitempty"`
}

type LedgerEntryResponse struct {
	ID             int64            `json:"id"`
	UPC            string           `json:"upc"`
	Reason         string           `json:"reason"`
	Delta          int              `json:"delta"`
	QuantityBefore int              `json:"quantity_before"`
	QuantityAfter  int              `json:"quantity_after"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	TransactionID  *string          `json:"transaction_id,omitempty"`
	Note           *string          `json:"note,omitempty"`
	ActorID        *string          `json:"actor_id,omitempty"`
	ActorName      *string          `json:"actor_name,omitempty"`
	CreatedAt      string           `json:"created_at"`
}

type OnHandResponse struct {
	UPC      string `json:"upc"`
	Quantity int    `json:"quantity"`
}

type AdjustmentListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// BalanceCheckResponse compares the latest snapshot balance with the sum of
// all deltas. The two disagree only when the chain has been broken by
// out-of-band writes.
type BalanceCheckResponse struct {
	UPC        string `json:"upc"`
	OnHand     int    `json:"on_hand"`
	SumDeltas  int64  `json:"sum_deltas"`
	Consistent bool   `json:"consistent"`
}

// AdjustmentSummary aggregates a set of ledger entries.
type AdjustmentSummary struct {
	TotalIn  int `json:"total_in"`
	TotalOut int `json:"total_out"`
	Net      int `json:"net"`
	CountIn  int `json:"count_in"`
	CountOut int `json:"count_out"`
}
