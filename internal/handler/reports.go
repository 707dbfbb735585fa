package handler

import (
	"net/http"
	"time"

	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// dateRange resolves start/end query params, defaulting to the last 30 days.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if v := c.Query("start_date"); v != "" {
		t, ok := parseDate(c, "start_date", v)
		if !ok {
			return start, end, false
		}
		start = t
	}
	if v := c.Query("end_date"); v != "" {
		t, ok := parseDate(c, "end_date", v)
		if !ok {
			return start, end, false
		}
		if len(v) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1).Add(-time.Second)
		}
		end = t
	}
	return start, end, true
}

// Hourly godoc
// @Summary Sales bucketed by hour for one day
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} dto.SalesSummaryResponse
// @Router /v1/reports/sales/hourly [get]
func (h *ReportHandler) Hourly(c *gin.Context) {
	day := time.Now()
	if v := c.Query("date"); v != "" {
		t, ok := parseDate(c, "date", v)
		if !ok {
			return
		}
		day = t
	}
	resp, err := h.svc.HourlySales(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Daily godoc
// @Summary Sales bucketed by day over a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param end_date query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} dto.SalesSummaryResponse
// @Router /v1/reports/sales/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.DailySales(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Weekly godoc
// @Summary Sales bucketed by ISO week over a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SalesSummaryResponse
// @Router /v1/reports/sales/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.WeeklySales(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProfitAndLoss godoc
// @Summary P&L statement: net sales, COGS, gross and net profit
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfitAndLossResponse
// @Router /v1/reports/profit-loss [get]
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.ProfitAndLoss(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
