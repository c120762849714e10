package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Grouping is the bucket size for date based aggregation.
type Grouping string

const (
	GroupByDay   Grouping = "day"
	GroupByWeek  Grouping = "week"
	GroupByMonth Grouping = "month"
)

func (g Grouping) IsValid() bool {
	return g == GroupByDay || g == GroupByWeek || g == GroupByMonth
}

// CategoryTotal is the sum of one category's transactions of one type.
// Amounts are in the user's currency.
type CategoryTotal struct {
	CategoryID    string          `json:"categoryID"`
	CategoryName  string          `json:"categoryName"`
	CategoryIcon  string          `json:"categoryIcon"`
	CategoryColor string          `json:"categoryColor"`
	Type          TransactionType `json:"type"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
}

// TransactionStatistics summarises a user's income and expense in a range.
type TransactionStatistics struct {
	Period            DateRange       `json:"period"`
	Currency          string          `json:"currency"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	NetBalance        decimal.Decimal `json:"netBalance"`
	TransactionCount  int             `json:"transactionCount"`
	Categories        []CategoryTotal `json:"categories"`
	TopIncomeSources  []CategoryTotal `json:"topIncomeSources"`
	TopExpenseSources []CategoryTotal `json:"topExpenseSources"`
}

// DateTotal is income and expense for one date bucket.
type DateTotal struct {
	Period  time.Time       `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

// CardTotal is income and expense on one card in the card's own currency.
type CardTotal struct {
	CardID       string          `json:"cardID"`
	CardName     string          `json:"cardName"`
	CurrencyCode string          `json:"currencyCode"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Count        int             `json:"count"`
}

// TopCategories returns at most n totals of type t in descending order of Total.
// categories must already be sorted by Total descending.
func TopCategories(categories []CategoryTotal, t TransactionType, n int) []CategoryTotal {
	top := make([]CategoryTotal, 0, n)
	for _, c := range categories {
		if c.Type != t {
			continue
		}
		top = append(top, c)
		if len(top) == n {
			break
		}
	}
	return top
}
