package handler

import (
	"net/http"

	"liquorpos/internal/apierror"
	"liquorpos/internal/dto"
	"liquorpos/internal/repository"
	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	svc service.TransactionService
}

func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// requireActor resolves the authenticated cashier. Writes a 401 and returns
// ok=false when the claims are missing or malformed.
func requireActor(c *gin.Context) (service.Actor, bool) {
	actor := actorFromClaims(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return service.Actor{}, false
	}
	return *actor, true
}

// Sale godoc
// @Summary Registers a cash sale; every line item decrements inventory through the ledger
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterSaleRequest true "Sale"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/transactions/sale [post]
func (h *TransactionHandler) Sale(c *gin.Context) {
	var req dto.RegisterSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cashier, ok := requireActor(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegisterSale(c.Request.Context(), cashier, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Return godoc
// @Summary Registers a return; items go back into inventory and cash leaves the drawer
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterReturnRequest true "Return"
// @Success 201 {object} dto.TransactionResponse
// @Router /v1/transactions/return [post]
func (h *TransactionHandler) Return(c *gin.Context) {
	var req dto.RegisterReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cashier, ok := requireActor(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegisterReturn(c.Request.Context(), cashier, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Payout godoc
// @Summary Records a cash payout from the drawer (no inventory effect)
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterPayoutRequest true "Payout"
// @Success 201 {object} dto.TransactionResponse
// @Router /v1/transactions/payout [post]
func (h *TransactionHandler) Payout(c *gin.Context) {
	var req dto.RegisterPayoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cashier, ok := requireActor(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegisterPayout(c.Request.Context(), cashier, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Void godoc
// @Summary Voids a completed sale with a compensating return transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/transactions/{id}/void [post]
func (h *TransactionHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid transaction id"))
		return
	}
	// the body is optional: {"note": "..."}
	var body struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&body)

	cashier, ok := requireActor(c)
	if !ok {
		return
	}
	resp, err := h.svc.VoidSale(c.Request.Context(), id, cashier, body.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary Lists transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "sale | return | payout"
// @Param status query string false "completed | voided"
// @Param till_session_id query string false "Till session filter"
// @Success 200 {object} dto.TransactionListResponse
// @Router /v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	filter := repository.TransactionFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 50),
	}
	if v := c.Query("till_session_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid till_session_id"))
			return
		}
		filter.TillSessionID = &id
	}
	if v := c.Query("start_date"); v != "" {
		t, ok := parseDate(c, "start_date", v)
		if !ok {
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, ok := parseDate(c, "end_date", v)
		if !ok {
			return
		}
		filter.EndDate = &t
	}

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Fetches one transaction with its items
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Router /v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid transaction id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
