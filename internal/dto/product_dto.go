package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	UPC         string          `json:"upc" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category"`
	Cost        decimal.Decimal `json:"cost" validate:"min=0"`
	Price       decimal.Decimal `json:"price" validate:"min=0"`
	Taxable     *bool           `json:"taxable,omitempty"`
	// InitialQuantity, when > 0, seeds the ledger with an "initial" entry.
	InitialQuantity int `json:"initial_quantity" validate:"min=0"`
}

type UpdateProductRequest struct {
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Taxable     *bool            `json:"taxable,omitempty"`
}

type ProductResponse struct {
	UPC         string          `json:"upc"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Cost        decimal.Decimal `json:"cost"`
	Price       decimal.Decimal `json:"price"`
	Taxable     bool            `json:"taxable"`
	OnHand      int             `json:"on_hand"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at"`
}

type ProductFilter struct {
	Search   string
	Category string
	Active   string // "" = active only, "false" = inactive, "all" = everything
	Page     int
	Limit    int
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type PriceHistoryResponse struct {
	ID        int64           `json:"id"`
	UPC       string          `json:"upc"`
	OldCost   decimal.Decimal `json:"old_cost"`
	NewCost   decimal.Decimal `json:"new_cost"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedBy *string         `json:"changed_by,omitempty"`
	CreatedAt string          `json:"created_at"`
}
