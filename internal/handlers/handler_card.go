package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cardHandler handles HTTP requests related to a user's cards.
type cardHandler struct {
	cardService portssvc.CardSvcFacade
}

func newCardHandler(cs portssvc.CardSvcFacade) *cardHandler {
	return &cardHandler{cardService: cs}
}

// registerCardRoutes registers card and card type routes.
func registerCardRoutes(rg *gin.RouterGroup, cardService portssvc.CardSvcFacade) {
	h := newCardHandler(cardService)

	rg.GET("/card-types", h.listCardTypes)

	cards := rg.Group("/cards")
	{
		cards.GET("", h.listCards)
		cards.POST("", h.createCard)
		cards.GET("/total-balance", h.totalBalance)
		cards.GET("/statistics", h.statistics)
		cards.GET("/:cardID", h.getCard)
		cards.PATCH("/:cardID", h.updateCard)
		cards.DELETE("/:cardID", h.deleteCard)
		cards.POST("/:cardID/set-default", h.setDefault)
		cards.POST("/:cardID/status", h.changeStatus)
		cards.POST("/:cardID/balance", h.updateBalance)
		cards.GET("/:cardID/summary", h.transactionSummary)
	}
}

// listCards godoc
// @Summary List cards
// @Description Lists the user's cards, default first, then newest
// @Tags cards
// @Produce  json
// @Param   status query string false "active, inactive or blocked"
// @Param   card_type query string false "Card type ID"
// @Param   currency query string false "Currency code"
// @Param   is_default query bool false "Default card only"
// @Param   bank_name query string false "Bank name contains"
// @Param   balance_min query number false "Minimum balance"
// @Param   balance_max query number false "Maximum balance"
// @Success 200 {array} dto.CardListView
// @Security BearerAuth
// @Router /cards [get]
func (h *cardHandler) listCards(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ListCardsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	cards, err := h.cardService.ListCards(c.Request.Context(), userID, params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list cards")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardListViews(cards))
}

// createCard godoc
// @Summary Open a card
// @Description The user's first card, or a card created with isDefault, becomes the default card
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   card body dto.CreateCardRequest true "Card details"
// @Success 201 {object} dto.CardDetailView
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards [post]
func (h *cardHandler) createCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create card")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Card created", slog.String("card_id", card.CardID))
	c.JSON(http.StatusCreated, dto.ToCardDetailView(&domain.CardDetail{Card: *card}))
}

// getCard godoc
// @Summary Get a card
// @Tags cards
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Success 200 {object} dto.CardDetailView
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardID} [get]
func (h *cardHandler) getCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), userID, c.Param("cardID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardDetailView(card))
}

// updateCard godoc
// @Summary Update a card
// @Description Changes descriptive fields. Balance and currency are not editable here.
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Param   card body dto.UpdateCardRequest true "Fields to change"
// @Success 200 {object} dto.CardListView
// @Security BearerAuth
// @Router /cards/{cardID} [patch]
func (h *cardHandler) updateCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), userID, c.Param("cardID"), req)
	if err != nil {
		respondError(c, err, "Failed to update card")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardListView(card))
}

// deleteCard godoc
// @Summary Delete a card
// @Description Only cards without transactions can be deleted, and never the last active card
// @Tags cards
// @Param   cardID path string true "Card ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "HasTransactions or LastActiveCard"
// @Security BearerAuth
// @Router /cards/{cardID} [delete]
func (h *cardHandler) deleteCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), userID, c.Param("cardID")); err != nil {
		respondError(c, err, "Failed to delete card")
		return
	}
	c.Status(http.StatusNoContent)
}

// setDefault godoc
// @Summary Make a card the default
// @Tags cards
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Success 200 {object} dto.CardListView
// @Failure 400 {object} ErrorResponse "Card is not active"
// @Security BearerAuth
// @Router /cards/{cardID}/set-default [post]
func (h *cardHandler) setDefault(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := h.cardService.SetDefaultCard(c.Request.Context(), userID, c.Param("cardID"))
	if err != nil {
		respondError(c, err, "Failed to set default card")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardListView(card))
}

// changeStatus godoc
// @Summary Change card status
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Param   status body dto.ChangeCardStatusRequest true "New status"
// @Success 200 {object} dto.CardListView
// @Security BearerAuth
// @Router /cards/{cardID}/status [post]
func (h *cardHandler) changeStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangeCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	card, err := h.cardService.ChangeCardStatus(c.Request.Context(), userID, c.Param("cardID"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to change card status")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardListView(card))
}

// updateBalance godoc
// @Summary Correct a card balance
// @Description Overwrites the balance manually. No transaction is recorded.
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Param   balance body dto.UpdateBalanceRequest true "New balance"
// @Success 200 {object} domain.BalanceAdjustment
// @Security BearerAuth
// @Router /cards/{cardID}/balance [post]
func (h *cardHandler) updateBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	adjustment, err := h.cardService.UpdateBalance(c.Request.Context(), userID, c.Param("cardID"), req)
	if err != nil {
		respondError(c, err, "Failed to update balance")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Card balance corrected",
		slog.String("card_id", adjustment.CardID),
		slog.String("difference", adjustment.Difference.String()),
	)
	c.JSON(http.StatusOK, adjustment)
}

// transactionSummary godoc
// @Summary Card income and expense
// @Description Defaults to the current month
// @Tags cards
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Param   start_date query string false "Start date (YYYY-MM-DD)"
// @Param   end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.CardTransactionSummary
// @Security BearerAuth
// @Router /cards/{cardID}/summary [get]
func (h *cardHandler) transactionSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.CardSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	today := domain.TruncateToDate(time.Now())
	period := domain.DateRange{Start: domain.PeriodWindow(domain.PeriodMonthly, today).Start, End: today}
	if params.StartDate != nil {
		period.Start = domain.TruncateToDate(*params.StartDate)
	}
	if params.EndDate != nil {
		period.End = domain.TruncateToDate(*params.EndDate)
	}

	summary, err := h.cardService.CardTransactionSummary(c.Request.Context(), userID, c.Param("cardID"), period)
	if err != nil {
		respondError(c, err, "Failed to summarise card transactions")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// totalBalance godoc
// @Summary Total balance
// @Description Sums active card balances in the given currency or the user's default currency
// @Tags cards
// @Produce  json
// @Param   currency query string false "Currency code"
// @Success 200 {object} domain.TotalBalance
// @Security BearerAuth
// @Router /cards/total-balance [get]
func (h *cardHandler) totalBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.TotalBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	total, err := h.cardService.TotalBalance(c.Request.Context(), userID, params.Currency)
	if err != nil {
		respondError(c, err, "Failed to compute total balance")
		return
	}
	c.JSON(http.StatusOK, total)
}

// statistics godoc
// @Summary Card statistics
// @Tags cards
// @Produce  json
// @Success 200 {object} domain.CardStatistics
// @Security BearerAuth
// @Router /cards/statistics [get]
func (h *cardHandler) statistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.cardService.CardStatistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute card statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// listCardTypes godoc
// @Summary List card types
// @Tags cards
// @Produce  json
// @Success 200 {array} dto.CardTypeResponse
// @Security BearerAuth
// @Router /card-types [get]
func (h *cardHandler) listCardTypes(c *gin.Context) {
	types, err := h.cardService.ListCardTypes(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list card types")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardTypeResponses(types))
}
