package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // Decimal places used when formatting amounts
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// ExchangeRate is a directional rate for one calendar date: 1 From = Rate To.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

// Conversion is the result of converting an amount through the ledger.
type Conversion struct {
	Amount          decimal.Decimal `json:"amount"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Date            time.Time       `json:"date"`
}

// ExchangeRateFilter narrows exchange rate listings. Empty fields are ignored.
type ExchangeRateFilter struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	Date             *time.Time
	Limit            int
	// Keyset cursor: rows strictly after (AfterDate, AfterCreatedAt) in date desc order.
	AfterDate      *time.Time
	AfterCreatedAt *time.Time
}

