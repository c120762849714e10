package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	topCategoriesCount = 5
	maxStatementRows   = 5000
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	txnRepo  portsrepo.TransactionRepositoryFacade
	userRepo portsrepo.UserReader
	renderer portssvc.StatementRenderer
	currency userCurrency
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithStatementRenderer sets the renderer used by ExportStatement.
func WithStatementRenderer(r portssvc.StatementRenderer) ReportingServiceOption {
	return func(s *reportingService) {
		s.renderer = r
	}
}

// WithReportingFallbackCurrency sets the currency reported for users without one.
func WithReportingFallbackCurrency(code string) ReportingServiceOption {
	return func(s *reportingService) {
		s.currency.fallback = code
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(txnRepo portsrepo.TransactionRepositoryFacade, userRepo portsrepo.UserReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		txnRepo:  txnRepo,
		userRepo: userRepo,
		currency: userCurrency{users: userRepo, fallback: fallbackCurrencyCode},
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func validatePeriod(period domain.DateRange) error {
	if period.End.Before(period.Start) {
		return fmt.Errorf("%w: start date must not be after end date", apperrors.ErrValidation)
	}
	return nil
}

// Statistics totals income and expense in period with a per-category breakdown.
func (s *reportingService) Statistics(ctx context.Context, userID string, period domain.DateRange) (*domain.TransactionStatistics, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	currency, err := s.currency.of(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.ByCategory(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	stats := &domain.TransactionStatistics{
		Period:            period,
		Currency:          currency,
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		Categories:        categories,
		TopIncomeSources:  domain.TopCategories(categories, domain.Income, topCategoriesCount),
		TopExpenseSources: domain.TopCategories(categories, domain.Expense, topCategoriesCount),
	}
	for _, c := range categories {
		if c.Type == domain.Income {
			stats.TotalIncome = stats.TotalIncome.Add(c.Total)
		} else {
			stats.TotalExpense = stats.TotalExpense.Add(c.Total)
		}
		stats.TransactionCount += c.Count
	}
	stats.NetBalance = stats.TotalIncome.Sub(stats.TotalExpense)

	s.LogDebug(ctx, "Transaction statistics generated",
		slog.String("user_id", userID),
		slog.Int("transaction_count", stats.TransactionCount))
	return stats, nil
}

func (s *reportingService) ByCategory(ctx context.Context, userID string, period domain.DateRange) ([]domain.CategoryTotal, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	totals, err := s.txnRepo.SumByCategory(ctx, userID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transactions by category", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	if totals == nil {
		totals = []domain.CategoryTotal{}
	}
	return totals, nil
}

func (s *reportingService) ByDate(ctx context.Context, userID string, period domain.DateRange, grouping domain.Grouping) ([]domain.DateTotal, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if grouping == "" {
		grouping = domain.GroupByDay
	}
	if !grouping.IsValid() {
		return nil, fmt.Errorf("%w: unknown grouping %q", apperrors.ErrValidation, grouping)
	}
	totals, err := s.txnRepo.SumByDate(ctx, userID, period, grouping)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transactions by date", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to sum by date: %w", err)
	}
	if totals == nil {
		totals = []domain.DateTotal{}
	}
	return totals, nil
}

func (s *reportingService) ByCard(ctx context.Context, userID string, period domain.DateRange) ([]domain.CardTotal, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	totals, err := s.txnRepo.SumByCard(ctx, userID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transactions by card", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to sum by card: %w", err)
	}
	if totals == nil {
		totals = []domain.CardTotal{}
	}
	return totals, nil
}

func (s *reportingService) MonthlyTrend(ctx context.Context, userID string) ([]domain.DateTotal, error) {
	end := today()
	period := domain.DateRange{Start: end.AddDate(-1, 0, 0), End: end}
	return s.ByDate(ctx, userID, period, domain.GroupByMonth)
}

// ExportStatement renders the user's transactions in period oldest first.
func (s *reportingService) ExportStatement(ctx context.Context, userID string, period domain.DateRange) ([]byte, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, apperrors.NewInternalServerError("statement export is not configured")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statement owner: %w", err)
	}
	currency := user.DefaultCurrency
	if currency == "" {
		currency = s.currency.fallback
	}

	start, end := period.Start, period.End
	txns, _, err := s.txnRepo.ListTransactions(ctx, userID, domain.TransactionFilter{
		DateAfter:  &start,
		DateBefore: &end,
		OrderBy:    "date",
		Limit:      maxStatementRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list statement transactions: %w", err)
	}

	statement := domain.Statement{
		UserName:     user.FullName(),
		Email:        user.Email,
		Currency:     currency,
		Period:       period,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Transactions: txns,
		GeneratedAt:  time.Now().UTC(),
	}
	for _, t := range txns {
		if t.Type == domain.Income {
			statement.TotalIncome = statement.TotalIncome.Add(t.AmountInUserCurrency)
		} else {
			statement.TotalExpense = statement.TotalExpense.Add(t.AmountInUserCurrency)
		}
	}

	doc, err := s.renderer.Render(statement)
	if err != nil {
		s.LogError(ctx, err, "Failed to render statement", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	s.LogInfo(ctx, "Statement exported",
		slog.String("user_id", userID),
		slog.Int("transactions", len(txns)),
		slog.Int("bytes", len(doc)))
	return doc, nil
}
