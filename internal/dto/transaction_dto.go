package dto

import "github.com/shopspring/decimal"

type SaleItemRequest struct {
	UPC      string `json:"upc" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type RegisterSaleRequest struct {
	TillSessionID string            `json:"till_session_id" validate:"required"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	CashTendered  decimal.Decimal   `json:"cash_tendered" validate:"min=0"`
}

type RegisterReturnRequest struct {
	TillSessionID string            `json:"till_session_id" validate:"required"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Note          *string           `json:"note,omitempty"`
}

type RegisterPayoutRequest struct {
	TillSessionID string          `json:"till_session_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Description   string          `json:"description" validate:"required"`
}

type TransactionItemResponse struct {
	UPC         string          `json:"upc"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type TransactionResponse struct {
	ID            string                    `json:"id"`
	Type          string                    `json:"type"`
	TillSessionID string                    `json:"till_session_id"`
	CashierID     string                    `json:"cashier_id"`
	CashierName   string                    `json:"cashier_name,omitempty"`
	Items         []TransactionItemResponse `json:"items"`
	Subtotal      decimal.Decimal           `json:"subtotal"`
	Tax           decimal.Decimal           `json:"tax"`
	Total         decimal.Decimal           `json:"total"`
	Change        *decimal.Decimal          `json:"change,omitempty"`
	Status        string                    `json:"status"`
	CreatedAt     string                    `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
