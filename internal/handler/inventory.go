package handler

import (
	"net/http"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/middleware"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"
	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	svc        service.InventoryService
	ledgerRepo repository.LedgerRepository
}

func NewInventoryHandler(svc service.InventoryService, ledgerRepo repository.LedgerRepository) *InventoryHandler {
	return &InventoryHandler{svc: svc, ledgerRepo: ledgerRepo}
}

// Adjust godoc
// @Summary Applies one inventory adjustment and appends a ledger entry
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AdjustInventoryRequest true "Adjustment"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorFromClaims(c)

	entry, err := h.svc.ApplyAdjustment(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// OnHand godoc
// @Summary Returns the current on-hand quantity for a UPC
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param upc path string true "Product UPC"
// @Success 200 {object} dto.OnHandResponse
// @Router /v1/inventory/{upc}/on-hand [get]
func (h *InventoryHandler) OnHand(c *gin.Context) {
	upc := c.Param("upc")
	quantity, err := h.svc.GetOnHand(c.Request.Context(), upc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OnHandResponse{UPC: upc, Quantity: quantity})
}

// Verify godoc
// @Summary Cross-checks a product's snapshot balance against its summed deltas
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param upc path string true "Product UPC"
// @Success 200 {object} dto.BalanceCheckResponse
// @Router /v1/inventory/{upc}/verify [get]
func (h *InventoryHandler) Verify(c *gin.Context) {
	resp, err := h.svc.VerifyBalance(c.Request.Context(), c.Param("upc"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAdjustments godoc
// @Summary Lists ledger entries, newest first
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param upc query string false "Filter by UPC"
// @Param reason query string false "Filter by reason"
// @Param start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param end_date query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} dto.AdjustmentListResponse
// @Router /v1/inventory/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	filter, ok := adjustmentFilterFromQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListAdjustments(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary aggregates the entries matching the same filters as ListAdjustments.
func (h *InventoryHandler) Summary(c *gin.Context) {
	filter, ok := adjustmentFilterFromQuery(c)
	if !ok {
		return
	}
	// Summaries cover the full filtered range, not one page.
	filter.Page = 1
	filter.Limit = 500

	var all []model.LedgerEntry
	for {
		entries, total, err := h.ledgerRepo.List(c.Request.Context(), filter)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		all = append(all, entries...)
		if int64(len(all)) >= total || len(entries) == 0 {
			break
		}
		filter.Page++
	}

	c.JSON(http.StatusOK, service.ComputeSummary(all))
}

func adjustmentFilterFromQuery(c *gin.Context) (repository.AdjustmentFilter, bool) {
	filter := repository.AdjustmentFilter{
		UPC:    c.Query("upc"),
		Reason: model.Reason(c.Query("reason")),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 100),
	}
	if v := c.Query("start_date"); v != "" {
		t, ok := parseDate(c, "start_date", v)
		if !ok {
			return filter, false
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, ok := parseDate(c, "end_date", v)
		if !ok {
			return filter, false
		}
		// a bare date as end bound means "through the end of that day"
		if len(v) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1).Add(-time.Second)
		}
		filter.EndDate = &t
	}
	return filter, true
}

func actorFromClaims(c *gin.Context) *service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &service.Actor{ID: id, Name: claims.Name}
}
