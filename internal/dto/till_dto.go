package dto

import "github.com/shopspring/decimal"

type OpenTillRequest struct {
	Register     int             `json:"register" validate:"min=1"`
	OpeningFloat decimal.Decimal `json:"opening_float" validate:"min=0"`
}

type TillMovementRequest struct {
	TillSessionID string          `json:"till_session_id" validate:"required"`
	Type          string          `json:"type" validate:"required,oneof=deposit withdrawal payout"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Description   string          `json:"description" validate:"required"`
}

// CloseTillRequest carries the blind count: the cashier declares the counted
// cash before seeing the expected figure.
type CloseTillRequest struct {
	TillSessionID string          `json:"till_session_id" validate:"required"`
	CountedCash   decimal.Decimal `json:"counted_cash" validate:"min=0"`
	Notes         *string         `json:"notes,omitempty"`
}

type OverShortResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Pct    decimal.Decimal `json:"pct"`
	// Severity: "normal" | "warning" | "critical"
	Severity string `json:"severity"`
}

type CloseTillResponse struct {
	TillSessionID string             `json:"till_session_id"`
	ExpectedCash  decimal.Decimal    `json:"expected_cash"`
	CountedCash   decimal.Decimal    `json:"counted_cash"`
	OverShort     OverShortResponse  `json:"over_short"`
	Status        string             `json:"status"`
}

type TillMovementResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// TillSessionResponse is the compact per-session view used by the history
// listing; movement detail stays on the report endpoint.
type TillSessionResponse struct {
	TillSessionID string             `json:"till_session_id"`
	Register      int                `json:"register"`
	OpeningFloat  decimal.Decimal    `json:"opening_float"`
	ExpectedCash  *decimal.Decimal   `json:"expected_cash,omitempty"`
	CountedCash   *decimal.Decimal   `json:"counted_cash,omitempty"`
	OverShort     *OverShortResponse `json:"over_short,omitempty"`
	Status        string             `json:"status"`
	OpenedAt      string             `json:"opened_at"`
	ClosedAt      *string            `json:"closed_at,omitempty"`
}

type TillHistoryResponse struct {
	Data  []TillSessionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type TillReportResponse struct {
	TillSessionID string                 `json:"till_session_id"`
	Register      int                    `json:"register"`
	OpeningFloat  decimal.Decimal        `json:"opening_float"`
	ExpectedCash  decimal.Decimal        `json:"expected_cash"`
	CountedCash   *decimal.Decimal       `json:"counted_cash,omitempty"`
	OverShort     *OverShortResponse     `json:"over_short,omitempty"`
	Status        string                 `json:"status"`
	Notes         *string                `json:"notes,omitempty"`
	Movements     []TillMovementResponse `json:"movements"`
	OpenedAt      string                 `json:"opened_at"`
	ClosedAt      *string                `json:"closed_at,omitempty"`
}
