package handler

import (
	"net/http"

	"liquorpos/internal/apierror"
	"liquorpos/internal/dto"
	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TillHandler struct {
	svc service.TillService
}

func NewTillHandler(svc service.TillService) *TillHandler {
	return &TillHandler{svc: svc}
}

// Open godoc
// @Summary Opens a till session on a register with a counted opening float
// @Tags till
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenTillRequest true "Opening"
// @Success 201 {object} dto.TillReportResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/till/open [post]
func (h *TillHandler) Open(c *gin.Context) {
	var req dto.OpenTillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Movement godoc
// @Summary Records a manual cash movement (deposit, withdrawal, payout)
// @Tags till
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TillMovementRequest true "Movement"
// @Success 201 {object} apierror.APIError
// @Router /v1/till/movements [post]
func (h *TillHandler) Movement(c *gin.Context) {
	var req dto.TillMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RecordMovement(c.Request.Context(), req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"detail": "movement recorded"})
}

// Close godoc
// @Summary Closes a till session with a blind count
// @Tags till
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseTillRequest true "Blind count"
// @Success 200 {object} dto.CloseTillResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/till/close [post]
func (h *TillHandler) Close(c *gin.Context) {
	var req dto.CloseTillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Full report for one till session, movements included
// @Tags till
// @Produce json
// @Security BearerAuth
// @Param id path string true "Till session ID"
// @Success 200 {object} dto.TillReportResponse
// @Router /v1/till/{id}/report [get]
func (h *TillHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid till session id"))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Lists till sessions across all registers, newest first
// @Tags till
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.TillHistoryResponse
// @Router /v1/till/history [get]
func (h *TillHandler) History(c *gin.Context) {
	resp, err := h.svc.History(c.Request.Context(), intQuery(c, "page", 1), intQuery(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active returns the open session on a register, if any.
func (h *TillHandler) Active(c *gin.Context) {
	register := intQuery(c, "register", 1)
	resp, err := h.svc.FindActive(c.Request.Context(), register)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
