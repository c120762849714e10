package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultHistoryMonths = 6

// BudgetOption is a functional option for configuring the budget service
type BudgetOption func(*budgetService)

// WithBudgetUserCurrency sets how the overview currency is resolved.
func WithBudgetUserCurrency(users portsrepo.UserReader, fallback string) BudgetOption {
	return func(s *budgetService) {
		s.currency = userCurrency{users: users, fallback: fallback}
	}
}

// budgetService tracks spending against per-category ceilings.
// Spent amounts are always recomputed from transactions.
type budgetService struct {
	BaseService
	budgetRepo      portsrepo.BudgetRepositoryFacade
	categoryRepo    portsrepo.CategoryReader
	aggregator      portsrepo.TransactionAggregator
	converter       portssvc.ConverterSvc
	currencyService portssvc.CurrencyReaderSvc
	currency        userCurrency
}

// NewBudgetService creates a new budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	aggregator portsrepo.TransactionAggregator,
	converter portssvc.ConverterSvc,
	currencyService portssvc.CurrencyReaderSvc,
	options ...BudgetOption,
) portssvc.BudgetSvcFacade {
	svc := &budgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		aggregator:      aggregator,
		converter:       converter,
		currencyService: currencyService,
		currency:        userCurrency{fallback: fallbackCurrencyCode},
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// spent sums the category's expenses in the window, converted into the budget currency.
// Amounts without a usable rate are left out of the sum.
func (s *budgetService) spent(ctx context.Context, b domain.Budget, window domain.DateRange, asOf time.Time) (decimal.Decimal, error) {
	sums, err := s.aggregator.SumExpensesByCurrency(ctx, b.UserID, b.CategoryID, window)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum budget spending: %w", err)
	}
	total := decimal.Zero
	for _, sum := range sums {
		if strings.EqualFold(sum.CurrencyCode, b.CurrencyCode) {
			total = total.Add(sum.Amount)
			continue
		}
		conv, err := s.converter.Convert(ctx, sum.Amount, sum.CurrencyCode, b.CurrencyCode, asOf)
		if err != nil {
			if errors.Is(err, apperrors.ErrRateUnavailable) {
				s.LogDebug(ctx, "Dropping spending without exchange rate",
					slog.String("budget_id", b.BudgetID),
					slog.String("from", sum.CurrencyCode),
					slog.String("to", b.CurrencyCode),
					slog.String("amount", sum.Amount.String()))
				continue
			}
			return decimal.Zero, err
		}
		total = total.Add(conv.ConvertedAmount)
	}
	return total, nil
}

func (s *budgetService) usage(ctx context.Context, b domain.Budget) (domain.BudgetUsage, error) {
	asOf := today()
	window := domain.PeriodWindow(b.Period, asOf)
	spent, err := s.spent(ctx, b, window, asOf)
	if err != nil {
		return domain.BudgetUsage{}, err
	}
	return domain.NewBudgetUsage(b, window, spent), nil
}

func (s *budgetService) usages(ctx context.Context, budgets []domain.Budget) ([]domain.BudgetUsage, error) {
	result := make([]domain.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		u, err := s.usage(ctx, b)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

// ownedBudget hides budgets of other users behind ErrNotFound.
func (s *budgetService) ownedBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	b, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
	}
	return b, nil
}

func (s *budgetService) GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetUsage, error) {
	b, err := s.ownedBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	u, err := s.usage(ctx, *b)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.BudgetUsage, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return s.usages(ctx, budgets)
}

func (s *budgetService) ActiveBudgets(ctx context.Context, userID string) ([]domain.BudgetUsage, error) {
	active := true
	return s.ListBudgets(ctx, userID, domain.BudgetFilter{IsActive: &active})
}

func (s *budgetService) BudgetProgress(ctx context.Context, userID, budgetID string) (*domain.BudgetProgress, error) {
	u, err := s.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	p := domain.NewBudgetProgress(*u, today())
	return &p, nil
}

// toCurrency converts for display, keeping the raw amount when no rate exists.
func (s *budgetService) toCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	conv, err := s.converter.Convert(ctx, amount, from, to, today())
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			return amount, nil
		}
		return decimal.Zero, err
	}
	return conv.ConvertedAmount, nil
}

func (s *budgetService) BudgetOverview(ctx context.Context, userID string) (*domain.BudgetOverview, error) {
	currency, err := s.currency.of(ctx, userID)
	if err != nil {
		return nil, err
	}
	usages, err := s.ActiveBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &domain.BudgetOverview{
		TotalBudgets:      len(usages),
		TotalBudgetAmount: decimal.Zero,
		TotalSpent:        decimal.Zero,
		Currency:          currency,
		Budgets:           usages,
	}
	for _, u := range usages {
		amount, err := s.toCurrency(ctx, u.Budget.Amount, u.Budget.CurrencyCode, currency)
		if err != nil {
			return nil, err
		}
		spent, err := s.toCurrency(ctx, u.Spent, u.Budget.CurrencyCode, currency)
		if err != nil {
			return nil, err
		}
		overview.TotalBudgetAmount = overview.TotalBudgetAmount.Add(amount)
		overview.TotalSpent = overview.TotalSpent.Add(spent)

		switch {
		case u.IsOverBudget:
			overview.BudgetsOverLimit++
		case u.Status == domain.BudgetWarning:
			overview.BudgetsAtWarning++
		}
	}
	overview.TotalRemaining = overview.TotalBudgetAmount.Sub(overview.TotalSpent)
	overview.OverallPercentage = domain.PercentageUsed(overview.TotalSpent, overview.TotalBudgetAmount)
	return overview, nil
}

// sortAlerts puts high severity first, then the most used budgets.
func sortAlerts(alerts []domain.BudgetAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		hi, hj := alerts[i].Severity == domain.SeverityHigh, alerts[j].Severity == domain.SeverityHigh
		if hi != hj {
			return hi
		}
		return alerts[i].PercentageUsed.GreaterThan(alerts[j].PercentageUsed)
	})
}

func alertsFor(usages []domain.BudgetUsage) []domain.BudgetAlert {
	alerts := make([]domain.BudgetAlert, 0)
	for _, u := range usages {
		if alert, ok := domain.NewBudgetAlert(u); ok {
			alerts = append(alerts, alert)
		}
	}
	sortAlerts(alerts)
	return alerts
}

func (s *budgetService) BudgetAlerts(ctx context.Context, userID string) ([]domain.BudgetAlert, error) {
	usages, err := s.ActiveBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return alertsFor(usages), nil
}

func (s *budgetService) BudgetsByCategory(ctx context.Context, userID string) ([]domain.CategoryBudgets, error) {
	usages, err := s.ActiveBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups := make([]domain.CategoryBudgets, 0)
	index := make(map[string]int)
	for _, u := range usages {
		i, ok := index[u.Budget.CategoryID]
		if !ok {
			i = len(groups)
			index[u.Budget.CategoryID] = i
			groups = append(groups, domain.CategoryBudgets{
				CategoryID:    u.Budget.CategoryID,
				CategoryName:  u.Budget.CategoryName,
				CategoryIcon:  u.Budget.CategoryIcon,
				CategoryColor: u.Budget.CategoryColor,
			})
		}
		groups[i].Budgets = append(groups[i].Budgets, u)
	}
	return groups, nil
}

// SpendingHistory reports monthly totals in the user's currency for months that had spending.
func (s *budgetService) SpendingHistory(ctx context.Context, userID, budgetID string, monthsBack int) (*domain.BudgetUsage, []domain.BudgetHistoryPoint, error) {
	if monthsBack <= 0 {
		monthsBack = defaultHistoryMonths
	}
	u, err := s.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, nil, err
	}

	now := today()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(monthsBack - 1), 0)
	totals, err := s.aggregator.SumMonthlyCategoryExpenses(ctx, userID, u.Budget.CategoryID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load spending history: %w", err)
	}

	history := make([]domain.BudgetHistoryPoint, 0, len(totals))
	for _, t := range totals {
		history = append(history, domain.BudgetHistoryPoint{
			Period:        t.Period.Format("2006-01"),
			Spent:         t.Expense,
			BudgetAmount:  u.Budget.Amount,
			Percentage:    domain.PercentageUsed(t.Expense, u.Budget.Amount),
			WasOverBudget: t.Expense.GreaterThan(u.Budget.Amount),
		})
	}
	return u, history, nil
}

// budgetCategory loads a category a budget may be attached to.
func (s *budgetService) budgetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, categoryID)
		}
		return nil, err
	}
	if !category.VisibleTo(userID) {
		return nil, fmt.Errorf("%w: category %s belongs to another user", apperrors.ErrForbidden, categoryID)
	}
	if category.Type != domain.Expense {
		return nil, fmt.Errorf("%w: budgets can only be set on expense categories", apperrors.ErrValidation)
	}
	return category, nil
}

func validateThreshold(threshold int) error {
	if threshold < 1 || threshold > 100 {
		return fmt.Errorf("%w: alert threshold must be between 1 and 100", apperrors.ErrValidation)
	}
	return nil
}

func (s *budgetService) CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetUsage, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
	}
	if err := requireMoneyScale("amount", req.Amount); err != nil {
		return nil, err
	}
	if !req.Period.IsValid() {
		return nil, fmt.Errorf("%w: unknown budget period %q", apperrors.ErrValidation, req.Period)
	}
	threshold := domain.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	category, err := s.budgetCategory(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencyService.GetActiveCurrency(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.DefaultBudgetName(req.Period, category.Name)
	}
	now := nowUTC()
	budget := domain.Budget{
		BudgetID:       uuid.NewString(),
		UserID:         userID,
		CategoryID:     category.CategoryID,
		Name:           name,
		Amount:         req.Amount,
		CurrencyCode:   currency.CurrencyCode,
		Period:         req.Period,
		AlertThreshold: threshold,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
		CategoryName:  category.Name,
		CategoryIcon:  category.Icon,
		CategoryColor: category.Color,
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget",
			slog.String("user_id", userID),
			slog.String("category_id", budget.CategoryID),
			slog.String("period", string(budget.Period)))
		return nil, err
	}
	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID))

	u, err := s.usage(ctx, budget)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, req dto.UpdateBudgetRequest) (*domain.BudgetUsage, error) {
	b, err := s.ownedBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
		if b.Name == "" {
			b.Name = domain.DefaultBudgetName(b.Period, b.CategoryName)
		}
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
		}
		if err := requireMoneyScale("amount", *req.Amount); err != nil {
			return nil, err
		}
		b.Amount = *req.Amount
	}
	if req.AlertThreshold != nil {
		if err := validateThreshold(*req.AlertThreshold); err != nil {
			return nil, err
		}
		b.AlertThreshold = *req.AlertThreshold
	}
	b.LastUpdatedAt = nowUTC()

	if err := s.budgetRepo.UpdateBudget(ctx, *b); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	u, err := s.usage(ctx, *b)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *budgetService) ToggleBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetUsage, error) {
	b, err := s.ownedBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	b.IsActive = !b.IsActive
	b.LastUpdatedAt = nowUTC()

	if err := s.budgetRepo.UpdateBudget(ctx, *b); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Budget toggled",
		slog.String("budget_id", budgetID),
		slog.Bool("is_active", b.IsActive))

	u, err := s.usage(ctx, *b)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.ownedBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	s.LogInfo(ctx, "Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

func (s *budgetService) EvaluateCategory(ctx context.Context, userID, categoryID string) ([]domain.BudgetAlert, error) {
	active := true
	usages, err := s.ListBudgets(ctx, userID, domain.BudgetFilter{IsActive: &active, CategoryID: &categoryID})
	if err != nil {
		return nil, err
	}
	return alertsFor(usages), nil
}
