package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the length of a budget's tracking cycle.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// BudgetStatus is the spending state of a budget in its current window.
type BudgetStatus string

const (
	BudgetGood       BudgetStatus = "good"
	BudgetOnTrack    BudgetStatus = "on_track"
	BudgetWarning    BudgetStatus = "warning"
	BudgetOverBudget BudgetStatus = "over_budget"
)

// DefaultAlertThreshold is used when a budget is created without a threshold.
const DefaultAlertThreshold = 80

var (
	hundred        = decimal.NewFromInt(100)
	onTrackPercent = decimal.NewFromInt(50)
)

// Budget is a spending ceiling for one expense category over a recurring period.
// The spent amount is never stored.
type Budget struct {
	BudgetID       string          `json:"budgetID"`
	UserID         string          `json:"userID"`
	CategoryID     string          `json:"categoryID"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"`
	Period         BudgetPeriod    `json:"period"`
	AlertThreshold int             `json:"alertThreshold"` // 1-100
	IsActive       bool            `json:"isActive"`
	AuditFields

	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
}

// DefaultBudgetName builds "Monthly Food Budget" style names.
func DefaultBudgetName(period BudgetPeriod, categoryName string) string {
	p := string(period)
	if p != "" {
		p = strings.ToUpper(p[:1]) + p[1:]
	}
	return fmt.Sprintf("%s %s Budget", p, categoryName)
}

// PeriodWindow returns the first and last calendar day of the period containing asOf.
// Weeks run Monday to Sunday.
func PeriodWindow(period BudgetPeriod, asOf time.Time) DateRange {
	today := TruncateToDate(asOf)
	switch period {
	case PeriodWeekly:
		offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
		start := today.AddDate(0, 0, -offset)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
	case PeriodMonthly:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
	case PeriodYearly:
		return DateRange{
			Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()),
			End:   time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, today.Location()),
		}
	default:
		return DateRange{Start: today, End: today}
	}
}

// PercentageUsed is spent / amount * 100 rounded to two places, or zero for a zero amount.
func PercentageUsed(spent, amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	return spent.Div(amount).Mul(hundred).Round(2)
}

// StatusFor classifies spending against a ceiling and alert threshold.
func StatusFor(spent, amount decimal.Decimal, alertThreshold int) BudgetStatus {
	pct := PercentageUsed(spent, amount)
	switch {
	case spent.GreaterThan(amount):
		return BudgetOverBudget
	case pct.GreaterThanOrEqual(decimal.NewFromInt(int64(alertThreshold))):
		return BudgetWarning
	case pct.GreaterThanOrEqual(onTrackPercent):
		return BudgetOnTrack
	default:
		return BudgetGood
	}
}

// BudgetUsage is a budget together with its spending in the current window.
type BudgetUsage struct {
	Budget         Budget          `json:"budget"`
	Window         DateRange       `json:"window"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"` // Never negative
	PercentageUsed decimal.Decimal `json:"percentageUsed"`
	IsOverBudget   bool            `json:"isOverBudget"`
	Status         BudgetStatus    `json:"status"`
}

// NewBudgetUsage derives the usage figures for a budget from its spent amount.
func NewBudgetUsage(b Budget, window DateRange, spent decimal.Decimal) BudgetUsage {
	remaining := b.Amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return BudgetUsage{
		Budget:         b,
		Window:         window,
		Spent:          spent,
		Remaining:      remaining,
		PercentageUsed: PercentageUsed(spent, b.Amount),
		IsOverBudget:   spent.GreaterThan(b.Amount),
		Status:         StatusFor(spent, b.Amount, b.AlertThreshold),
	}
}

// NeedsAlert reports whether the budget is at warning level or over.
func (u BudgetUsage) NeedsAlert() bool {
	return u.Status == BudgetWarning || u.Status == BudgetOverBudget
}

// BudgetProgress extends usage with day based pacing figures.
type BudgetProgress struct {
	BudgetUsage
	DaysTotal            int             `json:"daysTotal"`
	DaysElapsed          int             `json:"daysElapsed"`
	DaysRemaining        int             `json:"daysRemaining"`
	AverageDailySpending decimal.Decimal `json:"averageDailySpending"`
	SuggestedDailyLimit  decimal.Decimal `json:"suggestedDailyLimit"`
}

// NewBudgetProgress computes pacing for usage as of the given day.
func NewBudgetProgress(u BudgetUsage, asOf time.Time) BudgetProgress {
	today := TruncateToDate(asOf)
	start := TruncateToDate(u.Window.Start)
	end := TruncateToDate(u.Window.End)

	daysTotal := daysBetween(start, end) + 1
	daysElapsed := daysBetween(start, today) + 1
	daysRemaining := daysBetween(today, end)

	p := BudgetProgress{
		BudgetUsage:          u,
		DaysTotal:            daysTotal,
		DaysElapsed:          daysElapsed,
		DaysRemaining:        max(daysRemaining, 0),
		AverageDailySpending: decimal.Zero,
		SuggestedDailyLimit:  decimal.Zero,
	}
	if daysElapsed > 0 {
		p.AverageDailySpending = u.Spent.Div(decimal.NewFromInt(int64(daysElapsed))).Round(2)
	}
	if daysRemaining > 0 {
		p.SuggestedDailyLimit = u.Remaining.Div(decimal.NewFromInt(int64(daysRemaining))).Round(2)
	}
	return p
}

func daysBetween(a, b time.Time) int {
	// Dates are midnight in the same location, so rounding absorbs DST shifts.
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

// AlertSeverity orders budget alerts.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
)

// BudgetAlert is raised for budgets at warning level or over their ceiling.
type BudgetAlert struct {
	Usage          BudgetUsage     `json:"usage"`
	AlertType      BudgetStatus    `json:"alertType"`
	Severity       AlertSeverity   `json:"severity"`
	Message        string          `json:"message"`
	PercentageUsed decimal.Decimal `json:"percentageUsed"`
}

// NewBudgetAlert returns the alert for u, or false when u needs none.
func NewBudgetAlert(u BudgetUsage) (BudgetAlert, bool) {
	code := u.Budget.CurrencyCode
	switch u.Status {
	case BudgetOverBudget:
		over := u.Spent.Sub(u.Budget.Amount)
		return BudgetAlert{
			Usage:          u,
			AlertType:      BudgetOverBudget,
			Severity:       SeverityHigh,
			Message:        fmt.Sprintf("You have exceeded your %s by %s %s", u.Budget.Name, over.StringFixed(0), code),
			PercentageUsed: u.PercentageUsed,
		}, true
	case BudgetWarning:
		return BudgetAlert{
			Usage:          u,
			AlertType:      BudgetWarning,
			Severity:       SeverityMedium,
			Message:        fmt.Sprintf("You have used %s%% of your %s. %s %s remaining", u.PercentageUsed.StringFixed(1), u.Budget.Name, u.Remaining.StringFixed(0), code),
			PercentageUsed: u.PercentageUsed,
		}, true
	}
	return BudgetAlert{}, false
}

// BudgetOverview totals a user's active budgets in their default currency.
type BudgetOverview struct {
	TotalBudgets      int             `json:"totalBudgets"`
	TotalBudgetAmount decimal.Decimal `json:"totalBudgetAmount"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	TotalRemaining    decimal.Decimal `json:"totalRemaining"`
	OverallPercentage decimal.Decimal `json:"overallPercentage"`
	BudgetsOverLimit  int             `json:"budgetsOverLimit"`
	BudgetsAtWarning  int             `json:"budgetsAtWarning"`
	Currency          string          `json:"currency"`
	Budgets           []BudgetUsage   `json:"budgets"`
}

// CategoryBudgets groups usages under their category.
type CategoryBudgets struct {
	CategoryID    string        `json:"categoryID"`
	CategoryName  string        `json:"categoryName"`
	CategoryIcon  string        `json:"categoryIcon"`
	CategoryColor string        `json:"categoryColor"`
	Budgets       []BudgetUsage `json:"budgets"`
}

// BudgetHistoryPoint is the spending of one calendar month against the ceiling.
type BudgetHistoryPoint struct {
	Period        string          `json:"period"` // YYYY-MM
	Spent         decimal.Decimal `json:"spent"`
	BudgetAmount  decimal.Decimal `json:"budgetAmount"`
	Percentage    decimal.Decimal `json:"percentage"`
	WasOverBudget bool            `json:"wasOverBudget"`
}

// CurrencyAmount is a sum expressed in one currency.
type CurrencyAmount struct {
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
}

// BudgetFilter narrows budget listings. Nil fields are ignored.
type BudgetFilter struct {
	IsActive   *bool
	Period     *BudgetPeriod
	CategoryID *string
}
