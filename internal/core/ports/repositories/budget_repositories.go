package repositories

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// BudgetReader defines read operations for budgets
type BudgetReader interface {
	// FindBudgetByID retrieves a budget with its category details.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets lists a user's budgets newest first.
	ListBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.Budget, error)

	// CountActiveBudgets counts a user's active budgets.
	CountActiveBudgets(ctx context.Context, userID string) (int, error)
}

// BudgetWriter defines write operations for budgets.
// Writes that would create a second active budget for the same category and period
// fail with apperrors.ErrDuplicateActiveBudget.
type BudgetWriter interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	UpdateBudget(ctx context.Context, budget domain.Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetRepositoryFacade combines all budget repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
