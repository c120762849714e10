package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to spending reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to spending reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/statistics", h.getStatistics)
		reportingGroup.GET("/by-category", h.getByCategory)
		reportingGroup.GET("/by-date", h.getByDate)
		reportingGroup.GET("/by-card", h.getByCard)
		reportingGroup.GET("/monthly-trend", h.getMonthlyTrend)
		reportingGroup.GET("/statement", h.exportStatement)
	}
}

// bindDateRange reads period, start_date and end_date, writing a 400 on failure.
func bindDateRange(c *gin.Context) (domain.DateRange, bool) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return domain.DateRange{}, false
	}
	return params.ToDateRange(time.Now()), true
}

// getStatistics godoc
// @Summary Income and expense statistics
// @Description Totals, category breakdown and top five income and expense categories in the user's currency
// @Tags reports
// @Produce json
// @Param period query string false "week, month or year"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.TransactionStatistics
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/statistics [get]
func (h *reportingHandler) getStatistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	period, ok := bindDateRange(c)
	if !ok {
		return
	}

	stats, err := h.reportingService.Statistics(c.Request.Context(), userID, period)
	if err != nil {
		respondError(c, err, "Failed to generate statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getByCategory godoc
// @Summary Totals by category
// @Tags reports
// @Produce json
// @Param period query string false "week, month or year"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.CategoryTotal
// @Security BearerAuth
// @Router /reports/by-category [get]
func (h *reportingHandler) getByCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	period, ok := bindDateRange(c)
	if !ok {
		return
	}

	totals, err := h.reportingService.ByCategory(c.Request.Context(), userID, period)
	if err != nil {
		respondError(c, err, "Failed to generate category report")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// getByDate godoc
// @Summary Totals by day, week or month
// @Tags reports
// @Produce json
// @Param period query string false "week, month or year"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param group_by query string false "day, week or month" default(day)
// @Success 200 {array} domain.DateTotal
// @Security BearerAuth
// @Router /reports/by-date [get]
func (h *reportingHandler) getByDate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ByDateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	totals, err := h.reportingService.ByDate(c.Request.Context(), userID, params.ToDateRange(time.Now()), domain.Grouping(params.GroupBy))
	if err != nil {
		respondError(c, err, "Failed to generate date report")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// getByCard godoc
// @Summary Totals by card
// @Description Amounts are in each card's own currency
// @Tags reports
// @Produce json
// @Param period query string false "week, month or year"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.CardTotal
// @Security BearerAuth
// @Router /reports/by-card [get]
func (h *reportingHandler) getByCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	period, ok := bindDateRange(c)
	if !ok {
		return
	}

	totals, err := h.reportingService.ByCard(c.Request.Context(), userID, period)
	if err != nil {
		respondError(c, err, "Failed to generate card report")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// getMonthlyTrend godoc
// @Summary Monthly trend over the last year
// @Tags reports
// @Produce json
// @Success 200 {array} domain.DateTotal
// @Security BearerAuth
// @Router /reports/monthly-trend [get]
func (h *reportingHandler) getMonthlyTrend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	trend, err := h.reportingService.MonthlyTrend(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to generate monthly trend")
		return
	}
	c.JSON(http.StatusOK, trend)
}

// exportStatement godoc
// @Summary Export a PDF statement
// @Tags reports
// @Produce application/pdf
// @Param period query string false "week, month or year"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/statement [get]
func (h *reportingHandler) exportStatement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	period, ok := bindDateRange(c)
	if !ok {
		return
	}

	pdf, err := h.reportingService.ExportStatement(c.Request.Context(), userID, period)
	if err != nil {
		respondError(c, err, "Failed to export statement")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Statement exported", slog.Int("bytes", len(pdf)))
	filename := fmt.Sprintf("statement_%s_%s.pdf", period.Start.Format("20060102"), period.End.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
