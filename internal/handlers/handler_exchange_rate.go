package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	defaultCurrency     string
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, defaultCurrency string) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
		defaultCurrency:     defaultCurrency,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade, defaultCurrency string) {
	h := newExchangeRateHandler(exchangeRateService, defaultCurrency)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/latest", h.latestRates)
	}
}

// createExchangeRate godoc
// @Summary Create an exchange rate
// @Description Stores a rate between two currencies for a date, replacing the rate already stored for that pair and date
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.Time("date_effective", req.DateEffective),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Description Lists rates newest first. Pass nextToken from the previous page to continue.
// @Tags exchange rates
// @Produce  json
// @Param   from query string false "Source currency"
// @Param   to query string false "Target currency"
// @Param   date query string false "Effective date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListExchangeRatesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	rates, nextToken, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}

	c.JSON(http.StatusOK, dto.ListExchangeRatesResponse{
		Rates:     dto.ToListExchangeRateResponse(rates),
		NextToken: nextToken,
	})
}

// latestRates godoc
// @Summary Latest rates from a base currency
// @Tags exchange rates
// @Produce  json
// @Param   base query string false "Base currency, defaults to the system currency"
// @Param   date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.LatestRatesResponse
// @Security BearerAuth
// @Router /exchange-rates/latest [get]
func (h *exchangeRateHandler) latestRates(c *gin.Context) {
	var params dto.LatestRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	base := params.Base
	if base == "" {
		base = h.defaultCurrency
	}
	asOf := time.Now()
	if params.Date != nil {
		asOf = *params.Date
	}

	rates, err := h.exchangeRateService.LatestRates(c.Request.Context(), base, asOf)
	if err != nil {
		respondError(c, err, "Failed to retrieve latest rates")
		return
	}
	c.JSON(http.StatusOK, dto.LatestRatesResponse{Base: base, Date: asOf, Rates: rates})
}
