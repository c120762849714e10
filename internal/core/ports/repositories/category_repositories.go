package repositories

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// CategoryReader defines read operations for categories and tags
type CategoryReader interface {
	// FindCategoryByID retrieves a category with its parent's name.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategories lists active default categories and the user's own, optionally of one type.
	ListCategories(ctx context.Context, userID string, txnType *domain.TransactionType) ([]domain.Category, error)

	// CountCategoryTransactions counts transactions referencing a category.
	CountCategoryTransactions(ctx context.Context, categoryID string) (int, error)

	// FindTagByID retrieves a tag.
	FindTagByID(ctx context.Context, tagID string) (*domain.Tag, error)

	// FindTagsByIDs retrieves the tags that exist among tagIDs.
	FindTagsByIDs(ctx context.Context, tagIDs []string) ([]domain.Tag, error)

	// ListTags lists default tags and the user's own.
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
}

// CategoryWriter defines write operations for categories and tags
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
	SaveTag(ctx context.Context, tag domain.Tag) error
	DeleteTag(ctx context.Context, tagID string) error
}

// CategoryRepositoryFacade combines all category repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
