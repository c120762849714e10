package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activeBudgetIndex = "budgets_active_category_period_key"

// PgxBudgetRepository stores budgets. Spending is computed from transactions, never stored.
type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(db *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetSelect = `
	SELECT b.budget_id, b.user_id, b.category_id, b.name, b.amount, b.currency_code, b.period,
		b.alert_threshold, b.is_active, b.created_at, b.last_updated_at,
		cat.name, cat.icon, cat.color
	FROM budgets b
	JOIN categories cat ON cat.category_id = b.category_id`

func scanBudget(row pgx.Row) (domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.BudgetID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.CurrencyCode, &b.Period,
		&b.AlertThreshold, &b.IsActive, &b.CreatedAt, &b.LastUpdatedAt,
		&b.CategoryName, &b.CategoryIcon, &b.CategoryColor,
	)
	return b, err
}

// budgetWriteError maps a hit on the partial unique index to ErrDuplicateActiveBudget
// and a failed column check to ErrValidation.
func budgetWriteError(err error, op string) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == pgUniqueViolation && constraint == activeBudgetIndex:
		return apperrors.ErrDuplicateActiveBudget
	case code == pgCheckViolation:
		return fmt.Errorf("%w: budget violates %s", apperrors.ErrValidation, constraint)
	}
	return fmt.Errorf("failed to %s budget: %w", op, err)
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	b, err := scanBudget(r.Pool.QueryRow(ctx, budgetSelect+` WHERE b.budget_id = $1;`, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("budget " + budgetID + " not found")
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	return &b, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.Budget, error) {
	var args queryArgs
	conds := []string{"b.user_id = " + args.add(userID)}
	if filter.IsActive != nil {
		conds = append(conds, "b.is_active = "+args.add(*filter.IsActive))
	}
	if filter.Period != nil {
		conds = append(conds, "b.period = "+args.add(string(*filter.Period)))
	}
	if filter.CategoryID != nil {
		conds = append(conds, "b.category_id = "+args.add(*filter.CategoryID))
	}

	query := budgetSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY b.created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	budgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Budget, error) {
		return scanBudget(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan budgets: %w", err)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) CountActiveBudgets(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM budgets WHERE user_id = $1 AND is_active;`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active budgets: %w", err)
	}
	return n, nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, b domain.Budget) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO budgets (budget_id, user_id, category_id, name, amount, currency_code, period,
			alert_threshold, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		b.BudgetID, b.UserID, b.CategoryID, b.Name, b.Amount, b.CurrencyCode, string(b.Period),
		b.AlertThreshold, b.IsActive, b.CreatedAt, b.LastUpdatedAt)
	if err != nil {
		return budgetWriteError(err, "save")
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, b domain.Budget) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE budgets
		SET name = $2, amount = $3, alert_threshold = $4, is_active = $5, last_updated_at = $6
		WHERE budget_id = $1;`,
		b.BudgetID, b.Name, b.Amount, b.AlertThreshold, b.IsActive, b.LastUpdatedAt)
	if err != nil {
		return budgetWriteError(err, "update")
	}
	return requireRow(tag, "budget", b.BudgetID)
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	return requireRow(tag, "budget", budgetID)
}
