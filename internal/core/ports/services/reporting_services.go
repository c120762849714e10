package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// ReportingService defines aggregate reads over a user's transactions.
// Amounts are in the user's currency except ByCard, which uses each card's own currency.
type ReportingService interface {
	Statistics(ctx context.Context, userID string, period domain.DateRange) (*domain.TransactionStatistics, error)
	ByCategory(ctx context.Context, userID string, period domain.DateRange) ([]domain.CategoryTotal, error)
	ByDate(ctx context.Context, userID string, period domain.DateRange, grouping domain.Grouping) ([]domain.DateTotal, error)
	ByCard(ctx context.Context, userID string, period domain.DateRange) ([]domain.CardTotal, error)

	// MonthlyTrend sums income and expense per month over the last year.
	MonthlyTrend(ctx context.Context, userID string) ([]domain.DateTotal, error)

	// ExportStatement renders the user's transactions in period as a PDF document.
	ExportStatement(ctx context.Context, userID string, period domain.DateRange) ([]byte, error)
}
