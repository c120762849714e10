package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for every money column.
const MoneyScale = 2

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TruncateToDate drops the clock part of t, keeping its location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Contains reports whether the calendar date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateToDate(t)
	return !d.Before(TruncateToDate(r.Start)) && !d.After(TruncateToDate(r.End))
}

// HasMoneyScale reports whether d fits MoneyScale without rounding.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}
