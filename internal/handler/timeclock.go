package handler

import (
	"net/http"
	"time"

	"liquorpos/internal/apierror"
	"liquorpos/internal/middleware"
	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TimeClockHandler struct {
	svc service.TimeClockService
}

func NewTimeClockHandler(svc service.TimeClockService) *TimeClockHandler {
	return &TimeClockHandler{svc: svc}
}

// ClockIn opens a shift for the authenticated user.
func (h *TimeClockHandler) ClockIn(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.svc.ClockIn(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ClockOut closes the open shift for the authenticated user.
func (h *TimeClockHandler) ClockOut(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.svc.ClockOut(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// List returns shifts. Cashiers only see their own; managers and admins may
// pass user_id to see anyone's.
func (h *TimeClockHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}

	var userID *uuid.UUID
	if claims.Role == "cashier" {
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, apierror.New("malformed token"))
			return
		}
		userID = &id
	} else if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid user_id"))
			return
		}
		userID = &id
	}

	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		t, ok := parseDate(c, "start_date", v)
		if !ok {
			return
		}
		start = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, ok := parseDate(c, "end_date", v)
		if !ok {
			return
		}
		end = &t
	}

	entries, err := h.svc.List(c.Request.Context(), userID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
