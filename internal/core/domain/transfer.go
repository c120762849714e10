package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinimumTransferAmount is the smallest amount a transfer may move.
var MinimumTransferAmount = decimal.RequireFromString("0.01")

// CardTransfer moves funds between two cards of the same user.
// Amount is in the source card's currency, ConvertedAmount in the destination card's.
type CardTransfer struct {
	TransferID      string          `json:"transferID"`
	UserID          string          `json:"userID"`
	FromCardID      string          `json:"fromCardID"`
	ToCardID        string          `json:"toCardID"`
	Amount          decimal.Decimal `json:"amount"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"createdAt"`

	FromCardName     string `json:"fromCardName"`
	ToCardName       string `json:"toCardName"`
	FromCurrencyCode string `json:"fromCurrencyCode"`
	ToCurrencyCode   string `json:"toCurrencyCode"`
}

// TransferPreview is the effect a transfer would have, computed without side effects.
type TransferPreview struct {
	Amount         decimal.Decimal `json:"amount"`
	Converted      decimal.Decimal `json:"converted"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	NewFromBalance decimal.Decimal `json:"newFromBalance"`
	NewToBalance   decimal.Decimal `json:"newToBalance"`
}

// MonthlyTransferStat counts transfers created in one month.
type MonthlyTransferStat struct {
	Month time.Time       `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// TransferHistory is the transfer dashboard.
type TransferHistory struct {
	Recent       []CardTransfer        `json:"recent"`
	MonthlyStats []MonthlyTransferStat `json:"monthlyStats"`
	TotalCount   int                   `json:"totalCount"`
}
