package handlers

import (
	"net/http"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles spending ceilings per category.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.listBudgets)
		budgets.POST("", h.createBudget)
		budgets.GET("/active", h.activeBudgets)
		budgets.GET("/overview", h.overview)
		budgets.GET("/alerts", h.alerts)
		budgets.GET("/by-category", h.byCategory)
		budgets.GET("/by-period", h.byPeriod)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PATCH("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.POST("/:budgetID/toggle", h.toggleBudget)
		budgets.GET("/:budgetID/progress", h.progress)
		budgets.GET("/:budgetID/history", h.spendingHistory)
	}
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Param   is_active query bool false "Active flag"
// @Param   period query string false "weekly, monthly or yearly"
// @Param   category query string false "Category ID"
// @Success 200 {array} dto.BudgetListView
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	usages, err := h.budgetService.ListBudgets(c.Request.Context(), userID, params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetListViews(usages))
}

// createBudget godoc
// @Summary Create a budget
// @Description One active budget per category and period. The name defaults to "<Period> <Category> Budget".
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetDetailView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "DuplicateActiveBudget"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	usage, err := h.budgetService.CreateBudget(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetDetailView(usage))
}

// getBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetDetailView
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	usage, err := h.budgetService.GetBudget(c.Request.Context(), userID, c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetDetailView(usage))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} dto.BudgetDetailView
// @Security BearerAuth
// @Router /budgets/{budgetID} [patch]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	usage, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, c.Param("budgetID"), req)
	if err != nil {
		respondError(c, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetDetailView(usage))
}

// @Summary Delete a budget
// @Tags budgets
// @Param   budgetID path string true "Budget ID"
// @Success 204
// @Security BearerAuth
// @Router /budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, c.Param("budgetID")); err != nil {
		respondError(c, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// toggleBudget godoc
// @Summary Activate or deactivate a budget
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetDetailView
// @Failure 409 {object} ErrorResponse "Another active budget covers the category and period"
// @Security BearerAuth
// @Router /budgets/{budgetID}/toggle [post]
func (h *budgetHandler) toggleBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	usage, err := h.budgetService.ToggleBudget(c.Request.Context(), userID, c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to toggle budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetDetailView(usage))
}

// progress godoc
// @Summary Budget progress
// @Description Days elapsed and remaining, average daily spending and a suggested daily limit
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetProgressResponse
// @Security BearerAuth
// @Router /budgets/{budgetID}/progress [get]
func (h *budgetHandler) progress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := h.budgetService.BudgetProgress(c.Request.Context(), userID, c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to compute budget progress")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetProgressResponse(p))
}

// spendingHistory godoc
// @Summary Monthly spending of a budget's category
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Param   months_back query int false "Months of history" default(6)
// @Success 200 {object} dto.SpendingHistoryResponse
// @Security BearerAuth
// @Router /budgets/{budgetID}/history [get]
func (h *budgetHandler) spendingHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.SpendingHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	usage, history, err := h.budgetService.SpendingHistory(c.Request.Context(), userID, c.Param("budgetID"), params.MonthsBack)
	if err != nil {
		respondError(c, err, "Failed to load spending history")
		return
	}
	c.JSON(http.StatusOK, dto.SpendingHistoryResponse{Budget: dto.ToBudgetListView(usage), History: history})
}

// @Summary Active budgets
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.BudgetListView
// @Security BearerAuth
// @Router /budgets/active [get]
func (h *budgetHandler) activeBudgets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	usages, err := h.budgetService.ActiveBudgets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list active budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetListViews(usages))
}

// overview godoc
// @Summary Budget overview
// @Description Totals of active budgets in the user's default currency
// @Tags budgets
// @Produce  json
// @Success 200 {object} dto.BudgetOverviewResponse
// @Security BearerAuth
// @Router /budgets/overview [get]
func (h *budgetHandler) overview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	o, err := h.budgetService.BudgetOverview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute budget overview")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetOverviewResponse(o))
}

// alerts godoc
// @Summary Budget alerts
// @Description Over-budget alerts first, then warnings by percentage used
// @Tags budgets
// @Produce  json
// @Success 200 {object} dto.BudgetAlertsResponse
// @Security BearerAuth
// @Router /budgets/alerts [get]
func (h *budgetHandler) alerts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	alerts, err := h.budgetService.BudgetAlerts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute budget alerts")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetAlertsResponse(alerts))
}

// @Summary Budgets grouped by category
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.CategoryBudgetsResponse
// @Security BearerAuth
// @Router /budgets/by-category [get]
func (h *budgetHandler) byCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	groups, err := h.budgetService.BudgetsByCategory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to group budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryBudgetsResponses(groups))
}

// byPeriod godoc
// @Summary Active budgets grouped by period
// @Tags budgets
// @Produce  json
// @Success 200 {object} map[string][]dto.BudgetListView
// @Security BearerAuth
// @Router /budgets/by-period [get]
func (h *budgetHandler) byPeriod(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	active := true
	usages, err := h.budgetService.ListBudgets(c.Request.Context(), userID, domain.BudgetFilter{IsActive: &active})
	if err != nil {
		respondError(c, err, "Failed to group budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetsByPeriod(usages))
}
