package domain

import (
	"github.com/shopspring/decimal"
)

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardActive   CardStatus = "active"
	CardInactive CardStatus = "inactive"
	CardBlocked  CardStatus = "blocked"
)

// IsValid reports whether s is a known card status.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardActive, CardInactive, CardBlocked:
		return true
	}
	return false
}

// CardType is a card product such as Visa or Humo.
type CardType struct {
	CardTypeID      string `json:"cardTypeID"`
	Name            string `json:"name"`
	Logo            string `json:"logo"`
	IsInternational bool   `json:"isInternational"`
	IsActive        bool   `json:"isActive"`
}

// Card is a balance-bearing account in a single currency owned by one user.
type Card struct {
	CardID          string          `json:"cardID"`
	UserID          string          `json:"userID"`
	CardName        string          `json:"cardName"`
	CardTypeID      string          `json:"cardTypeID"`   // Nullable
	CardTypeName    string          `json:"cardTypeName"` // Read-only, joined
	CurrencyCode    string          `json:"currencyCode"`
	Balance         decimal.Decimal `json:"balance"`
	InitialBalance  decimal.Decimal `json:"initialBalance"` // Snapshot at creation, never mutated
	CardNumberLast4 string          `json:"cardNumberLast4"`
	BankName        string          `json:"bankName"`
	Color           string          `json:"color"`
	Status          CardStatus      `json:"status"`
	IsDefault       bool            `json:"isDefault"`
	AuditFields
}

// IsActive reports whether the card accepts new activity.
func (c Card) IsActive() bool {
	return c.Status == CardActive
}

// CanWithdraw reports whether amount can be debited without going negative.
func (c Card) CanWithdraw(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(c.Balance)
}

// CardFilter narrows card listings. Nil fields are ignored.
type CardFilter struct {
	Status     *CardStatus
	CardTypeID *string
	Currency   *string
	IsDefault  *bool
	BankName   *string // case-insensitive contains
	BalanceMin *decimal.Decimal
	BalanceMax *decimal.Decimal
}

// BalanceAdjustment is the outcome of a manual balance correction.
type BalanceAdjustment struct {
	CardID     string          `json:"cardID"`
	OldBalance decimal.Decimal `json:"oldBalance"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Difference decimal.Decimal `json:"difference"`
	Reason     string          `json:"reason"`
}

// CardBalanceLine is one card's contribution to a user's total balance.
type CardBalanceLine struct {
	CardID           string          `json:"cardID"`
	CardName         string          `json:"cardName"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
	Converted        bool            `json:"converted"` // false when no rate was found and the raw balance was used
}

// TotalBalance is the sum of a user's card balances in one currency.
type TotalBalance struct {
	Currency     string            `json:"currency"`
	TotalBalance decimal.Decimal   `json:"totalBalance"`
	Cards        []CardBalanceLine `json:"cards"`
}

// CardStatistics groups a user's cards for the dashboard.
type CardStatistics struct {
	TotalCards    int                        `json:"totalCards"`
	ActiveCards   int                        `json:"activeCards"`
	InactiveCards int                        `json:"inactiveCards"`
	BlockedCards  int                        `json:"blockedCards"`
	TotalBalance  decimal.Decimal            `json:"totalBalance"`
	Currency      string                     `json:"currency"`
	ByType        map[string]int             `json:"byType"`
	ByCurrency    map[string]decimal.Decimal `json:"byCurrency"`
}

// CardTransactionSummary is the income and expense of one card in a date range.
type CardTransactionSummary struct {
	CardID           string          `json:"cardID"`
	Period           DateRange       `json:"period"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transactionCount"`
}

// CardDetail is a card with the number of transactions recorded against it.
type CardDetail struct {
	Card
	TransactionCount int `json:"transactionCount"`
}
