package services

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// GetActiveCurrency retrieves a currency and fails with a validation error when it is inactive.
	GetActiveCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves currencies, active ones only unless includeInactive is set.
	ListCurrencies(ctx context.Context, includeInactive bool) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)

	// UpdateCurrency changes name, symbol, precision or the active flag.
	UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ConverterSvc converts amounts between currencies using stored rates.
type ConverterSvc interface {
	// Convert returns amount in the target currency. Equal codes convert at rate 1.
	// Otherwise the latest rate for the exact pair dated on or before asOf is used,
	// and apperrors.ErrRateUnavailable is returned when there is none.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf time.Time) (*domain.Conversion, error)

	// LatestRate returns the latest rate for the pair and whether one was found.
	LatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, bool, error)

	// LatestRates maps each active currency reachable from base to its latest rate.
	LatestRates(ctx context.Context, baseCode string, asOf time.Time) (map[string]decimal.Decimal, error)
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// ListExchangeRates returns one page of rates, newest first, and the token of the next page.
	ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) ([]domain.ExchangeRate, *string, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate stores a rate, replacing the rate for the same pair and date.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ConverterSvc
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
