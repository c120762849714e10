package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines a spending ceiling for an expense category.
type CreateBudgetRequest struct {
	CategoryID     string              `json:"categoryID" binding:"required,max=36"`
	Name           string              `json:"name" binding:"max=100"`
	Amount         decimal.Decimal     `json:"amount" binding:"required"`
	CurrencyCode   string              `json:"currencyCode" binding:"required,currency_code"`
	Period         domain.BudgetPeriod `json:"period" binding:"required,oneof=weekly monthly yearly"`
	AlertThreshold *int                `json:"alertThreshold" binding:"omitempty,min=1,max=100"`
}

// UpdateBudgetRequest defines the fields that can change on a budget.
type UpdateBudgetRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=100"`
	Amount         *decimal.Decimal `json:"amount"`
	AlertThreshold *int             `json:"alertThreshold" binding:"omitempty,min=1,max=100"`
}

// ListBudgetsParams filters budget listings.
type ListBudgetsParams struct {
	IsActive   *bool   `form:"is_active"`
	Period     *string `form:"period" binding:"omitempty,oneof=weekly monthly yearly"`
	CategoryID *string `form:"category"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListBudgetsParams) ToFilter() domain.BudgetFilter {
	f := domain.BudgetFilter{IsActive: p.IsActive, CategoryID: p.CategoryID}
	if p.Period != nil {
		period := domain.BudgetPeriod(*p.Period)
		f.Period = &period
	}
	return f
}

// SpendingHistoryParams selects how many months of history to return.
type SpendingHistoryParams struct {
	MonthsBack int `form:"months_back,default=6" binding:"omitempty,min=1,max=36"`
}

// BudgetListView is a budget with its current spending.
type BudgetListView struct {
	BudgetID       string              `json:"budgetID"`
	Name           string              `json:"name"`
	CategoryID     string              `json:"categoryID"`
	CategoryName   string              `json:"categoryName"`
	Amount         decimal.Decimal     `json:"amount"`
	CurrencyCode   string              `json:"currencyCode"`
	Period         domain.BudgetPeriod `json:"period"`
	AlertThreshold int                 `json:"alertThreshold"`
	IsActive       bool                `json:"isActive"`
	SpentAmount    decimal.Decimal     `json:"spentAmount"`
	PercentageUsed decimal.Decimal     `json:"percentageUsed"`
	IsOverBudget   bool                `json:"isOverBudget"`
}

// BudgetDetailView adds the window, status and category styling.
type BudgetDetailView struct {
	BudgetListView
	CategoryIcon  string              `json:"categoryIcon,omitempty"`
	CategoryColor string              `json:"categoryColor,omitempty"`
	Remaining     decimal.Decimal     `json:"remaining"`
	Status        domain.BudgetStatus `json:"status"`
	PeriodStart   time.Time           `json:"periodStart"`
	PeriodEnd     time.Time           `json:"periodEnd"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// BudgetProgressResponse is a budget's pacing in its current window.
type BudgetProgressResponse struct {
	Budget               BudgetDetailView `json:"budget"`
	DaysTotal            int              `json:"daysTotal"`
	DaysElapsed          int              `json:"daysElapsed"`
	DaysRemaining        int              `json:"daysRemaining"`
	AverageDailySpending decimal.Decimal  `json:"averageDailySpending"`
	SuggestedDailyLimit  decimal.Decimal  `json:"suggestedDailyLimit"`
}

// BudgetOverviewResponse totals active budgets in the user's currency.
type BudgetOverviewResponse struct {
	TotalBudgets      int              `json:"totalBudgets"`
	TotalBudgetAmount decimal.Decimal  `json:"totalBudgetAmount"`
	TotalSpent        decimal.Decimal  `json:"totalSpent"`
	TotalRemaining    decimal.Decimal  `json:"totalRemaining"`
	OverallPercentage decimal.Decimal  `json:"overallPercentage"`
	BudgetsOverLimit  int              `json:"budgetsOverLimit"`
	BudgetsAtWarning  int              `json:"budgetsAtWarning"`
	Currency          string           `json:"currency"`
	Budgets           []BudgetListView `json:"budgets"`
}

// BudgetAlertResponse is one alert.
type BudgetAlertResponse struct {
	Budget         BudgetListView       `json:"budget"`
	AlertType      domain.BudgetStatus  `json:"alertType"`
	Severity       domain.AlertSeverity `json:"severity"`
	Message        string               `json:"message"`
	PercentageUsed decimal.Decimal      `json:"percentageUsed"`
}

// BudgetAlertsResponse lists alerts, most severe first.
type BudgetAlertsResponse struct {
	AlertCount int                   `json:"alertCount"`
	Alerts     []BudgetAlertResponse `json:"alerts"`
}

// CategoryBudgetsResponse groups budgets under their category.
type CategoryBudgetsResponse struct {
	CategoryID    string           `json:"categoryID"`
	CategoryName  string           `json:"categoryName"`
	CategoryIcon  string           `json:"categoryIcon,omitempty"`
	CategoryColor string           `json:"categoryColor,omitempty"`
	Budgets       []BudgetListView `json:"budgets"`
}

// SpendingHistoryResponse is a budget's monthly spending.
type SpendingHistoryResponse struct {
	Budget  BudgetListView              `json:"budget"`
	History []domain.BudgetHistoryPoint `json:"history"`
}

// ToBudgetListView converts a usage to its listing shape.
func ToBudgetListView(u *domain.BudgetUsage) BudgetListView {
	b := u.Budget
	return BudgetListView{
		BudgetID:       b.BudgetID,
		Name:           b.Name,
		CategoryID:     b.CategoryID,
		CategoryName:   b.CategoryName,
		Amount:         b.Amount,
		CurrencyCode:   b.CurrencyCode,
		Period:         b.Period,
		AlertThreshold: b.AlertThreshold,
		IsActive:       b.IsActive,
		SpentAmount:    u.Spent,
		PercentageUsed: u.PercentageUsed,
		IsOverBudget:   u.IsOverBudget,
	}
}

// ToBudgetListViews converts usages to their listing shape.
func ToBudgetListViews(us []domain.BudgetUsage) []BudgetListView {
	res := make([]BudgetListView, len(us))
	for i := range us {
		res[i] = ToBudgetListView(&us[i])
	}
	return res
}

// ToBudgetDetailView converts a usage to its detail shape.
func ToBudgetDetailView(u *domain.BudgetUsage) BudgetDetailView {
	return BudgetDetailView{
		BudgetListView: ToBudgetListView(u),
		CategoryIcon:   u.Budget.CategoryIcon,
		CategoryColor:  u.Budget.CategoryColor,
		Remaining:      u.Remaining,
		Status:         u.Status,
		PeriodStart:    u.Window.Start,
		PeriodEnd:      u.Window.End,
		CreatedAt:      u.Budget.CreatedAt,
		LastUpdatedAt:  u.Budget.LastUpdatedAt,
	}
}

// ToBudgetProgressResponse converts budget progress.
func ToBudgetProgressResponse(p *domain.BudgetProgress) BudgetProgressResponse {
	return BudgetProgressResponse{
		Budget:               ToBudgetDetailView(&p.BudgetUsage),
		DaysTotal:            p.DaysTotal,
		DaysElapsed:          p.DaysElapsed,
		DaysRemaining:        p.DaysRemaining,
		AverageDailySpending: p.AverageDailySpending,
		SuggestedDailyLimit:  p.SuggestedDailyLimit,
	}
}

// ToBudgetOverviewResponse converts the budget overview.
func ToBudgetOverviewResponse(o *domain.BudgetOverview) BudgetOverviewResponse {
	return BudgetOverviewResponse{
		TotalBudgets:      o.TotalBudgets,
		TotalBudgetAmount: o.TotalBudgetAmount,
		TotalSpent:        o.TotalSpent,
		TotalRemaining:    o.TotalRemaining,
		OverallPercentage: o.OverallPercentage,
		BudgetsOverLimit:  o.BudgetsOverLimit,
		BudgetsAtWarning:  o.BudgetsAtWarning,
		Currency:          o.Currency,
		Budgets:           ToBudgetListViews(o.Budgets),
	}
}

// ToBudgetAlertsResponse converts alerts, keeping their order.
func ToBudgetAlertsResponse(alerts []domain.BudgetAlert) BudgetAlertsResponse {
	res := make([]BudgetAlertResponse, len(alerts))
	for i := range alerts {
		a := alerts[i]
		res[i] = BudgetAlertResponse{
			Budget:         ToBudgetListView(&a.Usage),
			AlertType:      a.AlertType,
			Severity:       a.Severity,
			Message:        a.Message,
			PercentageUsed: a.PercentageUsed,
		}
	}
	return BudgetAlertsResponse{AlertCount: len(res), Alerts: res}
}

// ToCategoryBudgetsResponses converts category groups.
func ToCategoryBudgetsResponses(groups []domain.CategoryBudgets) []CategoryBudgetsResponse {
	res := make([]CategoryBudgetsResponse, len(groups))
	for i, g := range groups {
		res[i] = CategoryBudgetsResponse{
			CategoryID:    g.CategoryID,
			CategoryName:  g.CategoryName,
			CategoryIcon:  g.CategoryIcon,
			CategoryColor: g.CategoryColor,
			Budgets:       ToBudgetListViews(g.Budgets),
		}
	}
	return res
}

// ToBudgetsByPeriod groups usages by period, always returning all three keys.
func ToBudgetsByPeriod(us []domain.BudgetUsage) map[domain.BudgetPeriod][]BudgetListView {
	periods := map[domain.BudgetPeriod][]BudgetListView{
		domain.PeriodWeekly:  {},
		domain.PeriodMonthly: {},
		domain.PeriodYearly:  {},
	}
	for i := range us {
		p := us[i].Budget.Period
		periods[p] = append(periods[p], ToBudgetListView(&us[i]))
	}
	return periods
}
