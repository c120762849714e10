package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is income or expense.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Transaction is an income or expense entry against one card.
// AmountInUserCurrency and ExchangeRateUsed are fixed at creation and never recomputed.
type Transaction struct {
	TransactionID        string           `json:"transactionID"`
	UserID               string           `json:"userID"`
	CardID               string           `json:"cardID"`
	CategoryID           string           `json:"categoryID"`
	Type                 TransactionType  `json:"type"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Amount               decimal.Decimal  `json:"amount"` // In the card's currency
	AmountInUserCurrency decimal.Decimal  `json:"amountInUserCurrency"`
	UserCurrency         string           `json:"userCurrency"`
	ExchangeRateUsed     *decimal.Decimal `json:"exchangeRateUsed"` // Nil when no rate was available
	Date                 time.Time        `json:"date"`
	Location             string           `json:"location"`
	ReceiptImage         string           `json:"receiptImage"`
	AuditFields

	// Read-only joined fields.
	CardName      string `json:"cardName"`
	CardCurrency  string `json:"cardCurrency"`
	CardTypeName  string `json:"cardTypeName"`
	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
	Tags          []Tag  `json:"tags"`
}

// BalanceEffect is the signed change the transaction applies to its card.
func (t Transaction) BalanceEffect() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter narrows transaction listings. Nil fields are ignored.
type TransactionFilter struct {
	Type                    *TransactionType
	CategoryID              *string
	CardID                  *string
	TagID                   *string
	DateAfter               *time.Time
	DateBefore              *time.Time
	AmountMin               *decimal.Decimal
	AmountMax               *decimal.Decimal
	AmountInUserCurrencyMin *decimal.Decimal
	AmountInUserCurrencyMax *decimal.Decimal
	Search                  string
	OrderBy                 string // "date", "amount", "created_at"; prefix "-" for descending
	Limit                   int
	Offset                  int
}

// Statement is the data rendered into a transaction statement export.
type Statement struct {
	UserName     string          `json:"userName"`
	Email        string          `json:"email"`
	Currency     string          `json:"currency"`
	Period       DateRange       `json:"period"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Transactions []Transaction   `json:"transactions"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}
