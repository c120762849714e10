package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles income and expense entries.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers transaction routes.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.POST("", h.createTransaction)
		txns.GET("/recent", h.recentTransactions)
		txns.POST("/bulk-delete", h.bulkDelete)
		txns.GET("/:transactionID", h.getTransaction)
		txns.PATCH("/:transactionID", h.updateTransaction)
		txns.DELETE("/:transactionID", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Record income or expense
// @Description Applies the amount to the card balance and converts it into the user's currency
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionCreateResult
// @Failure 400 {object} ErrorResponse "Validation, InsufficientFunds or CategoryTypeMismatch"
// @Failure 403 {object} ErrorResponse "Card or category not owned"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.Info("Received request to create transaction",
		slog.String("card_id", req.CardID),
		slog.String("type", string(req.Type)),
		slog.String("amount", req.Amount.String()),
	)

	txn, balance, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionCreateResult(txn, balance))
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce  json
// @Param   type query string false "income or expense"
// @Param   category query string false "Category ID"
// @Param   card query string false "Card ID"
// @Param   tag query string false "Tag ID"
// @Param   date_after query string false "From date (YYYY-MM-DD)"
// @Param   date_before query string false "To date (YYYY-MM-DD)"
// @Param   amount_min query number false "Minimum amount"
// @Param   amount_max query number false "Maximum amount"
// @Param   amount_in_user_currency_min query number false "Minimum amount in user currency"
// @Param   amount_in_user_currency_max query number false "Maximum amount in user currency"
// @Param   search query string false "Search title, description and location"
// @Param   ordering query string false "date, -date, amount, -amount, created_at, -created_at"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	filter := params.ToFilter()
	txns, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionListViews(txns),
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

// recentTransactions godoc
// @Summary Recent transactions
// @Tags transactions
// @Produce  json
// @Param   limit query int false "How many" default(10)
// @Success 200 {array} dto.TransactionListView
// @Security BearerAuth
// @Router /transactions/recent [get]
func (h *transactionHandler) recentTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.RecentParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	txns, err := h.transactionService.RecentTransactions(c.Request.Context(), userID, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list recent transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionListViews(txns))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionDetailView
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), userID, c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionDetailView(txn))
}

// updateTransaction godoc
// @Summary Update transaction details
// @Description Amount, type and card cannot change. Delete and re-create instead.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionDetailView
// @Security BearerAuth
// @Router /transactions/{transactionID} [patch]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, c.Param("transactionID"), req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionDetailView(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Reverses the transaction's effect on the card balance
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Reversal would overdraw the card"
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, c.Param("transactionID")); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// bulkDelete godoc
// @Summary Delete several transactions
// @Description All or nothing. IDs that are not the user's are skipped.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   ids body dto.BulkDeleteRequest true "Transaction IDs"
// @Success 200 {object} dto.BulkDeleteResponse
// @Security BearerAuth
// @Router /transactions/bulk-delete [post]
func (h *transactionHandler) bulkDelete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	deleted, err := h.transactionService.BulkDeleteTransactions(c.Request.Context(), userID, req.TransactionIDs)
	if err != nil {
		respondError(c, err, "Failed to delete transactions")
		return
	}
	c.JSON(http.StatusOK, dto.BulkDeleteResponse{Deleted: deleted})
}
