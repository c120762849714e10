package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves currencies ordered by code, active ones only unless includeInactive is set.
	ListCurrencies(ctx context.Context, includeInactive bool) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// UpdateCurrency updates name, symbol, precision and the active flag.
	UpdateCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}

// ExchangeRateReader defines read operations for exchange rates
type ExchangeRateReader interface {
	// FindLatestRate returns the most recent rate for the exact pair dated on or before asOf.
	// Returns apperrors.ErrNotFound when no such rate exists.
	FindLatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)

	// FindLatestRatesFrom returns the latest rate from base to every other currency, one per target.
	FindLatestRatesFrom(ctx context.Context, baseCode string, asOf time.Time) ([]domain.ExchangeRate, error)

	// ListExchangeRates lists rates ordered by date then creation time, newest first.
	ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rates
type ExchangeRateWriter interface {
	// UpsertExchangeRate saves a rate, replacing any existing rate for the same pair and date.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
