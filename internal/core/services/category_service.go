package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category and tag service.
func NewCategoryService(repo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: repo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context, userID string, txnType *domain.TransactionType) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID, txnType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.VisibleTo(userID) {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return category, nil
}

// ownCategory loads a category the user may change. Default and foreign categories are forbidden.
func (s *categoryService) ownCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, fmt.Errorf("%w: category %s is not yours to change", apperrors.ErrForbidden, categoryID)
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, req.Type)
	}

	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		Icon:       req.Icon,
		Color:      req.Color,
		IsActive:   true,
		CreatedAt:  nowUTC(),
	}

	if req.ParentCategoryID != nil && *req.ParentCategoryID != "" {
		parent, err := s.categoryRepo.FindCategoryByID(ctx, *req.ParentCategoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent category does not exist", apperrors.ErrValidation)
			}
			return nil, err
		}
		if !parent.VisibleTo(userID) {
			return nil, fmt.Errorf("%w: parent category belongs to another user", apperrors.ErrForbidden)
		}
		if parent.Type != req.Type {
			return nil, fmt.Errorf("%w: parent is a %s category", apperrors.ErrCategoryTypeMismatch, parent.Type)
		}
		category.ParentCategoryID = parent.CategoryID
		category.ParentName = parent.Name
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID), slog.String("user_id", userID))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.ownCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if _, err := s.ownCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountCategoryTransactions(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count category transactions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category is used by %d transactions", apperrors.ErrHasTransactions, count)
	}
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	return nil
}

func (s *categoryService) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	tags, err := s.categoryRepo.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}

func (s *categoryService) GetTag(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.categoryRepo.FindTagByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if !tag.VisibleTo(userID) {
		return nil, fmt.Errorf("%w: tag %s", apperrors.ErrNotFound, tagID)
	}
	return tag, nil
}

func (s *categoryService) CreateTag(ctx context.Context, userID string, req dto.CreateTagRequest) (*domain.Tag, error) {
	tag := domain.Tag{
		TagID:     uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Color:     req.Color,
		CreatedAt: nowUTC(),
	}
	if err := s.categoryRepo.SaveTag(ctx, tag); err != nil {
		s.LogError(ctx, err, "Failed to save tag", slog.String("user_id", userID))
		return nil, err
	}
	return &tag, nil
}

func (s *categoryService) DeleteTag(ctx context.Context, userID, tagID string) error {
	tag, err := s.categoryRepo.FindTagByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag.UserID != userID {
		return fmt.Errorf("%w: tag %s is not yours to delete", apperrors.ErrForbidden, tagID)
	}
	return s.categoryRepo.DeleteTag(ctx, tagID)
}
