package utils

import (
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the precision of its currency.
// Example: 12.3456 with USD (precision 2) returns "12.35"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return FormatWithPrecision(amount, currency.Precision)
}

// FormatWithPrecision formats an amount with the given number of decimal places.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatGrouped is FormatWithPrecision with comma thousands separators: "1,234,567.89".
func FormatGrouped(amount decimal.Decimal, precision int) string {
	digits := amount.Abs().StringFixed(int32(precision))
	intPart, frac, hasFrac := strings.Cut(digits, ".")

	var b strings.Builder
	if amount.Round(int32(precision)).IsNegative() {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
