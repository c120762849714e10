package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currency_code"`
	Symbol       string `json:"symbol" binding:"required,max=10"`
	Name         string `json:"name" binding:"required,max=50"`
	Precision    *int   `json:"precision" binding:"omitempty,min=0,max=8"`
}

// UpdateCurrencyRequest defines the fields that can change on a currency.
// Deactivating only hides the currency from new selections.
type UpdateCurrencyRequest struct {
	Symbol    *string `json:"symbol" binding:"omitempty,max=10"`
	Name      *string `json:"name" binding:"omitempty,max=50"`
	Precision *int    `json:"precision" binding:"omitempty,min=0,max=8"`
	IsActive  *bool   `json:"isActive"`
}

// ListCurrenciesParams defines query parameters for listing currencies.
type ListCurrenciesParams struct {
	IncludeInactive bool `form:"include_inactive"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string    `json:"currencyCode"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Precision     int       `json:"precision"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  curr.CurrencyCode,
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		Precision:     curr.Precision,
		IsActive:      curr.IsActive,
		CreatedAt:     curr.CreatedAt,
		LastUpdatedAt: curr.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}

// ConvertParams are the query parameters of a currency conversion.
type ConvertParams struct {
	Amount decimal.Decimal `form:"amount" binding:"required"`
	From   string          `form:"from" binding:"required,currency_code"`
	To     string          `form:"to" binding:"required,currency_code"`
	Date   *time.Time      `form:"date" time_format:"2006-01-02"`
}

// ConvertResponse is the result of a currency conversion.
type ConvertResponse struct {
	Amount          decimal.Decimal `json:"amount"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Date            time.Time       `json:"date"`
}

// ToConvertResponse converts a domain.Conversion to ConvertResponse DTO
func ToConvertResponse(c domain.Conversion) ConvertResponse {
	return ConvertResponse{
		Amount:          c.Amount,
		FromCurrency:    c.From,
		ToCurrency:      c.To,
		ConvertedAmount: c.ConvertedAmount,
		ExchangeRate:    c.ExchangeRate,
		Date:            c.Date,
	}
}

// CreateExchangeRateRequest defines the structure for creating a new exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,currency_code"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,currency_code,nefield=FromCurrencyCode"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ListExchangeRatesParams defines query parameters for listing exchange rates.
type ListExchangeRatesParams struct {
	From      string     `form:"from" binding:"omitempty,currency_code"`
	To        string     `form:"to" binding:"omitempty,currency_code"`
	Date      *time.Time `form:"date" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string    `form:"nextToken"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListExchangeRatesResponse is one page of exchange rates.
type ListExchangeRatesResponse struct {
	Rates     []ExchangeRateResponse `json:"rates"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// LatestRatesResponse maps target currency codes to the latest rate from Base.
type LatestRatesResponse struct {
	Base  string                     `json:"base"`
	Date  time.Time                  `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective,
		CreatedAt:        rate.CreatedAt,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// LatestRatesParams selects the base currency and the date rates must be effective on.
type LatestRatesParams struct {
	Base string     `form:"base" binding:"omitempty,currency_code"`
	Date *time.Time `form:"date" time_format:"2006-01-02"`
}
