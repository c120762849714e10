package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table joined with its card and category.
type Transaction struct {
	TransactionID        string           `db:"transaction_id"`
	UserID               string           `db:"user_id"`
	CardID               string           `db:"card_id"`
	CategoryID           string           `db:"category_id"`
	Type                 string           `db:"type"`
	Title                string           `db:"title"`
	Description          string           `db:"description"`
	Amount               decimal.Decimal  `db:"amount"`
	AmountInUserCurrency decimal.Decimal  `db:"amount_in_user_currency"`
	UserCurrency         string           `db:"user_currency"`
	ExchangeRateUsed     *decimal.Decimal `db:"exchange_rate_used"` // Nullable
	Date                 time.Time        `db:"date"`
	Location             string           `db:"location"`
	ReceiptImage         string           `db:"receipt_image"`
	AuditFields

	CardName      string `db:"card_name"`
	CardCurrency  string `db:"card_currency"`
	CardTypeName  string `db:"card_type_name"`
	CategoryName  string `db:"category_name"`
	CategoryIcon  string `db:"category_icon"`
	CategoryColor string `db:"category_color"`
}
