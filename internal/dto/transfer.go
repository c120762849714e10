package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest moves money between two of the caller's cards.
// Amount is in the source card's currency.
type CreateTransferRequest struct {
	FromCardID  string          `json:"fromCardID" binding:"required,uuid"`
	ToCardID    string          `json:"toCardID" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// ListTransfersParams filters transfers to those touching one card.
type ListTransfersParams struct {
	CardID *string `form:"card"`
}

// RateParams names a currency pair.
type RateParams struct {
	From string `form:"from" binding:"required,currency_code"`
	To   string `form:"to" binding:"required,currency_code"`
}

// RateResponse is the latest rate for a pair.
type RateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// TransferResponse is a transfer as returned by the API.
type TransferResponse struct {
	TransferID       string          `json:"transferID"`
	FromCardID       string          `json:"fromCardID"`
	FromCardName     string          `json:"fromCardName"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCardID         string          `json:"toCardID"`
	ToCardName       string          `json:"toCardName"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Amount           decimal.Decimal `json:"amount"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListTransfersResponse lists transfers with the sum of their source amounts.
type ListTransfersResponse struct {
	Transfers        []TransferResponse `json:"transfers"`
	Count            int                `json:"count"`
	TotalTransferred decimal.Decimal    `json:"totalTransferred"`
}

// TransferHistoryResponse is the transfer dashboard.
type TransferHistoryResponse struct {
	Recent       []TransferResponse           `json:"recent"`
	MonthlyStats []domain.MonthlyTransferStat `json:"monthlyStats"`
	TotalCount   int                          `json:"totalCount"`
}

// ToTransferResponse converts a domain.CardTransfer to TransferResponse DTO
func ToTransferResponse(t *domain.CardTransfer) TransferResponse {
	return TransferResponse{
		TransferID:       t.TransferID,
		FromCardID:       t.FromCardID,
		FromCardName:     t.FromCardName,
		FromCurrencyCode: t.FromCurrencyCode,
		ToCardID:         t.ToCardID,
		ToCardName:       t.ToCardName,
		ToCurrencyCode:   t.ToCurrencyCode,
		Amount:           t.Amount,
		ExchangeRate:     t.ExchangeRate,
		ConvertedAmount:  t.ConvertedAmount,
		Description:      t.Description,
		CreatedAt:        t.CreatedAt,
	}
}

// ToTransferResponses converts transfers to their response shape.
func ToTransferResponses(ts []domain.CardTransfer) []TransferResponse {
	res := make([]TransferResponse, len(ts))
	for i := range ts {
		res[i] = ToTransferResponse(&ts[i])
	}
	return res
}

// ToListTransfersResponse lists transfers and sums their source amounts.
func ToListTransfersResponse(ts []domain.CardTransfer) ListTransfersResponse {
	total := decimal.Zero
	for _, t := range ts {
		total = total.Add(t.Amount)
	}
	return ListTransfersResponse{
		Transfers:        ToTransferResponses(ts),
		Count:            len(ts),
		TotalTransferred: total,
	}
}

// ToTransferHistoryResponse converts the transfer dashboard.
func ToTransferHistoryResponse(h *domain.TransferHistory) TransferHistoryResponse {
	return TransferHistoryResponse{
		Recent:       ToTransferResponses(h.Recent),
		MonthlyStats: h.MonthlyStats,
		TotalCount:   h.TotalCount,
	}
}
