package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles transfers between a user's own cards.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.GET("", h.listTransfers)
		transfers.POST("", h.createTransfer)
		transfers.POST("/preview", h.previewTransfer)
		transfers.GET("/history", h.history)
		transfers.GET("/rate", h.rate)
		transfers.GET("/:transferID", h.getTransfer)
	}
}

// createTransfer godoc
// @Summary Transfer between cards
// @Description Debits the source card and credits the destination, converting when currencies differ
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse "SameCard, InvalidCard, BelowMinimum, InsufficientFunds or RateUnavailable"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	transfer, err := h.transferService.CreateTransfer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transfer")
		return
	}

	logger.Info("Transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("from_card_id", transfer.FromCardID),
		slog.String("to_card_id", transfer.ToCardID),
	)
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// previewTransfer godoc
// @Summary Preview a transfer
// @Description Runs every check of a transfer and reports the resulting balances without moving money
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 200 {object} domain.TransferPreview
// @Security BearerAuth
// @Router /transfers/preview [post]
func (h *transferHandler) previewTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	preview, err := h.transferService.PreviewTransfer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to preview transfer")
		return
	}
	c.JSON(http.StatusOK, preview)
}

// listTransfers godoc
// @Summary List transfers
// @Tags transfers
// @Produce  json
// @Param   card query string false "Only transfers touching this card"
// @Success 200 {object} dto.ListTransfersResponse
// @Security BearerAuth
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	transfers, err := h.transferService.ListTransfers(c.Request.Context(), userID, params.CardID)
	if err != nil {
		respondError(c, err, "Failed to list transfers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransfersResponse(transfers))
}

// getTransfer godoc
// @Summary Get a transfer
// @Tags transfers
// @Produce  json
// @Param   transferID path string true "Transfer ID"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{transferID} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.GetTransfer(c.Request.Context(), userID, c.Param("transferID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// history godoc
// @Summary Transfer dashboard
// @Description Latest transfers, monthly counts for the last six months and the overall count
// @Tags transfers
// @Produce  json
// @Success 200 {object} dto.TransferHistoryResponse
// @Security BearerAuth
// @Router /transfers/history [get]
func (h *transferHandler) history(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	hist, err := h.transferService.TransferHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load transfer history")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferHistoryResponse(hist))
}

// rate godoc
// @Summary Transfer rate
// @Tags transfers
// @Produce  json
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse "RateUnavailable"
// @Security BearerAuth
// @Router /transfers/rate [get]
func (h *transferHandler) rate(c *gin.Context) {
	var params dto.RateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	r, err := h.transferService.Rate(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to look up rate")
		return
	}
	c.JSON(http.StatusOK, dto.RateResponse{From: params.From, To: params.To, Rate: r})
}
