package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
	converter       portssvc.ConverterSvc
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade, conv portssvc.ConverterSvc) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
		converter:       conv,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade, converter portssvc.ConverterSvc) {
	h := newCurrencyHandler(currencyService, converter)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/convert", h.convert)
		currencies.GET("/:code", h.getCurrencyByCode)
		currencies.PATCH("/:code", h.updateCurrency)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Adds a new currency to the system
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Currency code already exists"
// @Failure 500 {object} ErrorResponse "Failed to create currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.Info("Received request to create currency", slog.String("currency_code", req.CurrencyCode))

	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created successfully", slog.String("currency_code", createdCurrency.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves details for a specific currency by its 3-letter code
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve currency"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	currencyCode := c.Param("code")

	if len(currencyCode) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency code must be 3 letters", Kind: "Validation"})
		return
	}

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), currencyCode)
	if err != nil {
		respondError(c, err, "Failed to retrieve currency")
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// updateCurrency godoc
// @Summary Update a currency
// @Description Changes name, symbol, precision or the active flag. Inactive currencies stay valid on existing data.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   code path string true "Currency Code"
// @Param   currency body dto.UpdateCurrencyRequest true "Fields to change"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code} [patch]
func (h *currencyHandler) updateCurrency(c *gin.Context) {
	var req dto.UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	currency, err := h.currencyService.UpdateCurrency(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		respondError(c, err, "Failed to update currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List currencies
// @Description Retrieves active currencies, or all of them with include_inactive
// @Tags currencies
// @Produce  json
// @Param   include_inactive query bool false "Include inactive currencies"
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} ErrorResponse "Failed to list currencies"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	var params dto.ListCurrenciesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context(), params.IncludeInactive)
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// convert godoc
// @Summary Convert an amount
// @Description Converts with the latest rate of the exact pair dated on or before date (default today)
// @Tags currencies
// @Produce  json
// @Param   amount query number true "Amount"
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Param   date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ConvertResponse
// @Failure 404 {object} ErrorResponse "No rate for the pair"
// @Security BearerAuth
// @Router /currencies/convert [get]
func (h *currencyHandler) convert(c *gin.Context) {
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	asOf := time.Now()
	if params.Date != nil {
		asOf = *params.Date
	}

	conversion, err := h.converter.Convert(c.Request.Context(), params.Amount, params.From, params.To, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			respondErrorWithStatus(c, err, http.StatusNotFound, "Exchange rate not available")
			return
		}
		respondError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dto.ToConvertResponse(*conversion))
}
