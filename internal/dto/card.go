package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCardRequest defines the data needed to open a card.
type CreateCardRequest struct {
	CardName        string           `json:"cardName" binding:"required,max=100"`
	CardTypeID      *string          `json:"cardTypeID" binding:"omitempty,max=36"`
	CurrencyCode    string           `json:"currencyCode" binding:"required,currency_code"`
	Balance         *decimal.Decimal `json:"balance"`
	CardNumberLast4 string           `json:"cardNumberLast4" binding:"omitempty,len=4,numeric"`
	BankName        string           `json:"bankName" binding:"max=100"`
	Color           string           `json:"color" binding:"omitempty,hexcolor"`
	IsDefault       bool             `json:"isDefault"`
}

// UpdateCardRequest defines the descriptive fields that can change on a card.
type UpdateCardRequest struct {
	CardName        *string `json:"cardName" binding:"omitempty,max=100"`
	CardTypeID      *string `json:"cardTypeID" binding:"omitempty,max=36"`
	CardNumberLast4 *string `json:"cardNumberLast4" binding:"omitempty,len=4,numeric"`
	BankName        *string `json:"bankName" binding:"omitempty,max=100"`
	Color           *string `json:"color" binding:"omitempty,hexcolor"`
}

// ChangeCardStatusRequest moves a card to a new status.
type ChangeCardStatusRequest struct {
	Status domain.CardStatus `json:"status" binding:"required,oneof=active inactive blocked"`
}

// UpdateBalanceRequest is a manual balance correction.
type UpdateBalanceRequest struct {
	NewBalance decimal.Decimal `json:"newBalance" binding:"required"`
	Reason     string          `json:"reason" binding:"max=200"`
}

// ListCardsParams defines query parameters for listing cards.
type ListCardsParams struct {
	Status     *string          `form:"status" binding:"omitempty,oneof=active inactive blocked"`
	CardTypeID *string          `form:"card_type"`
	Currency   *string          `form:"currency" binding:"omitempty,currency_code"`
	IsDefault  *bool            `form:"is_default"`
	BankName   *string          `form:"bank_name"`
	BalanceMin *decimal.Decimal `form:"balance_min"`
	BalanceMax *decimal.Decimal `form:"balance_max"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListCardsParams) ToFilter() domain.CardFilter {
	f := domain.CardFilter{
		CardTypeID: p.CardTypeID,
		Currency:   p.Currency,
		IsDefault:  p.IsDefault,
		BankName:   p.BankName,
		BalanceMin: p.BalanceMin,
		BalanceMax: p.BalanceMax,
	}
	if p.Status != nil {
		s := domain.CardStatus(*p.Status)
		f.Status = &s
	}
	return f
}

// CardSummaryParams bounds a card transaction summary. Both default to the current month.
type CardSummaryParams struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// TotalBalanceParams selects the currency card balances are summed in.
type TotalBalanceParams struct {
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// CardListView is the compact card shape used in listings.
type CardListView struct {
	CardID          string            `json:"cardID"`
	CardName        string            `json:"cardName"`
	CardTypeID      string            `json:"cardTypeID,omitempty"`
	CardTypeName    string            `json:"cardTypeName,omitempty"`
	CurrencyCode    string            `json:"currencyCode"`
	Balance         decimal.Decimal   `json:"balance"`
	CardNumberLast4 string            `json:"cardNumberLast4,omitempty"`
	BankName        string            `json:"bankName,omitempty"`
	Color           string            `json:"color,omitempty"`
	Status          domain.CardStatus `json:"status"`
	IsDefault       bool              `json:"isDefault"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// CardDetailView is the full card shape.
type CardDetailView struct {
	CardListView
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	TransactionCount int             `json:"transactionCount"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
}

// ToCardListView converts a domain.Card to its listing shape.
func ToCardListView(c *domain.Card) CardListView {
	return CardListView{
		CardID:          c.CardID,
		CardName:        c.CardName,
		CardTypeID:      c.CardTypeID,
		CardTypeName:    c.CardTypeName,
		CurrencyCode:    c.CurrencyCode,
		Balance:         c.Balance,
		CardNumberLast4: c.CardNumberLast4,
		BankName:        c.BankName,
		Color:           c.Color,
		Status:          c.Status,
		IsDefault:       c.IsDefault,
		CreatedAt:       c.CreatedAt,
	}
}

// ToCardListViews converts cards to their listing shape.
func ToCardListViews(cards []domain.Card) []CardListView {
	res := make([]CardListView, len(cards))
	for i := range cards {
		res[i] = ToCardListView(&cards[i])
	}
	return res
}

// ToCardDetailView converts a domain.CardDetail to its detail shape.
func ToCardDetailView(d *domain.CardDetail) CardDetailView {
	return CardDetailView{
		CardListView:     ToCardListView(&d.Card),
		InitialBalance:   d.InitialBalance,
		TransactionCount: d.TransactionCount,
		LastUpdatedAt:    d.LastUpdatedAt,
	}
}

// CardTypeResponse is a card product.
type CardTypeResponse struct {
	CardTypeID      string `json:"cardTypeID"`
	Name            string `json:"name"`
	Logo            string `json:"logo,omitempty"`
	IsInternational bool   `json:"isInternational"`
}

// ToCardTypeResponses converts card types to their response shape.
func ToCardTypeResponses(types []domain.CardType) []CardTypeResponse {
	res := make([]CardTypeResponse, len(types))
	for i, t := range types {
		res[i] = CardTypeResponse{
			CardTypeID:      t.CardTypeID,
			Name:            t.Name,
			Logo:            t.Logo,
			IsInternational: t.IsInternational,
		}
	}
	return res
}
