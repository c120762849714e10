package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
)

// CategorySvc manages default and user-owned categories.
// Default categories are visible to everyone and cannot be changed.
type CategorySvc interface {
	ListCategories(ctx context.Context, userID string, txnType *domain.TransactionType) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TagSvc manages default and user-owned tags.
type TagSvc interface {
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
	GetTag(ctx context.Context, userID, tagID string) (*domain.Tag, error)
	CreateTag(ctx context.Context, userID string, req dto.CreateTagRequest) (*domain.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID string) error
}

// CategorySvcFacade combines category and tag operations
type CategorySvcFacade interface {
	CategorySvc
	TagSvc
}
