package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/personal_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCategoryRepository stores categories and tags. Rows without an owner are shared defaults.
type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(db *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categorySelect = `
	SELECT c.category_id, COALESCE(c.user_id, ''), c.name, c.type, c.icon, c.color,
		COALESCE(c.parent_category_id, ''), COALESCE(p.name, ''), c.is_active, c.created_at
	FROM categories c
	LEFT JOIN categories p ON p.category_id = c.parent_category_id`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color,
		&c.ParentCategoryID, &c.ParentName, &c.IsActive, &c.CreatedAt)
	return c, err
}

const tagSelect = `SELECT tag_id, COALESCE(user_id, ''), name, color, created_at FROM tags`

func scanTag(row pgx.Row) (domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.TagID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt)
	return t, err
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	c, err := scanCategory(r.Pool.QueryRow(ctx, categorySelect+` WHERE c.category_id = $1;`, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category " + categoryID + " not found")
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string, txnType *domain.TransactionType) ([]domain.Category, error) {
	var typeFilter *string
	if txnType != nil {
		t := string(*txnType)
		typeFilter = &t
	}
	query := categorySelect + `
		WHERE c.is_active
			AND (c.user_id IS NULL OR c.user_id = $1)
			AND ($2::varchar IS NULL OR c.type = $2)
		ORDER BY c.type, c.user_id NULLS FIRST, c.name;`
	rows, err := r.Pool.Query(ctx, query, userID, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) CountCategoryTransactions(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1;`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count category transactions: %w", err)
	}
	return n, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, user_id, name, type, icon, color, parent_category_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID, mapping.NullIfEmpty(category.UserID), category.Name, string(category.Type),
		category.Icon, category.Color, mapping.NullIfEmpty(category.ParentCategoryID), category.IsActive, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, icon = $3, color = $4, parent_category_id = $5, is_active = $6
		WHERE category_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, category.CategoryID, category.Name, category.Icon, category.Color,
		mapping.NullIfEmpty(category.ParentCategoryID), category.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", category.CategoryID, err)
	}
	return requireRow(tag, "category", category.CategoryID)
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return fmt.Errorf("%w: category %s", apperrors.ErrHasTransactions, categoryID)
		}
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	return requireRow(tag, "category", categoryID)
}

func (r *PgxCategoryRepository) FindTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	t, err := scanTag(r.Pool.QueryRow(ctx, tagSelect+` WHERE tag_id = $1;`, tagID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("tag " + tagID + " not found")
		}
		return nil, fmt.Errorf("failed to find tag %s: %w", tagID, err)
	}
	return &t, nil
}

func (r *PgxCategoryRepository) FindTagsByIDs(ctx context.Context, tagIDs []string) ([]domain.Tag, error) {
	return r.queryTags(ctx, tagSelect+` WHERE tag_id = ANY($1) ORDER BY name;`, tagIDs)
}

func (r *PgxCategoryRepository) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	return r.queryTags(ctx, tagSelect+` WHERE user_id IS NULL OR user_id = $1 ORDER BY user_id NULLS FIRST, name;`, userID)
}

func (r *PgxCategoryRepository) queryTags(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Tag, error) {
		return scanTag(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tags: %w", err)
	}
	return tags, nil
}

func (r *PgxCategoryRepository) SaveTag(ctx context.Context, tag domain.Tag) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO tags (tag_id, user_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5);`,
		tag.TagID, mapping.NullIfEmpty(tag.UserID), tag.Name, tag.Color, tag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteTag(ctx context.Context, tagID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM tags WHERE tag_id = $1;`, tagID)
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tagID, err)
	}
	return requireRow(tag, "tag", tagID)
}
