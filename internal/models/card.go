package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Card is a row of the cards table joined with its card type name.
type Card struct {
	CardID          string          `db:"card_id"`
	UserID          string          `db:"user_id"`
	CardName        string          `db:"card_name"`
	CardTypeID      sql.NullString  `db:"card_type_id"`
	CardTypeName    sql.NullString  `db:"card_type_name"` // from LEFT JOIN card_types
	CurrencyCode    string          `db:"currency_code"`
	Balance         decimal.Decimal `db:"balance"`
	InitialBalance  decimal.Decimal `db:"initial_balance"`
	CardNumberLast4 string          `db:"card_number_last4"`
	BankName        string          `db:"bank_name"`
	Color           string          `db:"color"`
	Status          string          `db:"status"`
	IsDefault       bool            `db:"is_default"`
	AuditFields
}
