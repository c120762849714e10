package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
)

// BudgetReaderSvc defines budget reads. Each budget is returned with its spending in the current window.
type BudgetReaderSvc interface {
	GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetUsage, error)
	ListBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.BudgetUsage, error)
	ActiveBudgets(ctx context.Context, userID string) ([]domain.BudgetUsage, error)
	BudgetProgress(ctx context.Context, userID, budgetID string) (*domain.BudgetProgress, error)

	// BudgetOverview totals active budgets in the user's default currency.
	BudgetOverview(ctx context.Context, userID string) (*domain.BudgetOverview, error)

	// BudgetAlerts lists over-budget alerts first, then warnings by percentage used.
	BudgetAlerts(ctx context.Context, userID string) ([]domain.BudgetAlert, error)

	BudgetsByCategory(ctx context.Context, userID string) ([]domain.CategoryBudgets, error)

	// SpendingHistory returns spending per calendar month for the last monthsBack months, oldest first.
	SpendingHistory(ctx context.Context, userID, budgetID string, monthsBack int) (*domain.BudgetUsage, []domain.BudgetHistoryPoint, error)
}

// BudgetWriterSvc defines budget writes
type BudgetWriterSvc interface {
	CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetUsage, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, req dto.UpdateBudgetRequest) (*domain.BudgetUsage, error)

	// ToggleBudget flips the active flag. Reactivating re-checks for a duplicate active budget.
	ToggleBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetUsage, error)

	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// BudgetEvaluator checks a category's active budgets after spending changes.
type BudgetEvaluator interface {
	// EvaluateCategory returns alerts for the category's active budgets at warning or over budget.
	EvaluateCategory(ctx context.Context, userID, categoryID string) ([]domain.BudgetAlert, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
	BudgetEvaluator
}
