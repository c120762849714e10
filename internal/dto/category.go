package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a user category.
type CreateCategoryRequest struct {
	Name             string                 `json:"name" binding:"required,max=100"`
	Type             domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Icon             string                 `json:"icon" binding:"max=50"`
	Color            string                 `json:"color" binding:"omitempty,hexcolor"`
	ParentCategoryID *string                `json:"parentCategoryID" binding:"omitempty,max=36"`
}

// UpdateCategoryRequest defines the fields that can change on a user category.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Icon     *string `json:"icon" binding:"omitempty,max=50"`
	Color    *string `json:"color" binding:"omitempty,hexcolor"`
	IsActive *bool   `json:"isActive"`
}

// ListCategoriesParams filters categories by type.
type ListCategoriesParams struct {
	Type *string `form:"type" binding:"omitempty,oneof=income expense"`
}

// CategoryResponse is a category as returned by the API.
type CategoryResponse struct {
	CategoryID       string                 `json:"categoryID"`
	Name             string                 `json:"name"`
	FullName         string                 `json:"fullName"`
	Type             domain.TransactionType `json:"type"`
	Icon             string                 `json:"icon,omitempty"`
	Color            string                 `json:"color,omitempty"`
	ParentCategoryID string                 `json:"parentCategoryID,omitempty"`
	IsDefault        bool                   `json:"isDefault"`
	IsActive         bool                   `json:"isActive"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:       c.CategoryID,
		Name:             c.Name,
		FullName:         c.FullName(),
		Type:             c.Type,
		Icon:             c.Icon,
		Color:            c.Color,
		ParentCategoryID: c.ParentCategoryID,
		IsDefault:        c.IsDefault(),
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
	}
}

// ToCategoryResponses converts categories to their response shape.
func ToCategoryResponses(cs []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(cs))
	for i := range cs {
		res[i] = ToCategoryResponse(&cs[i])
	}
	return res
}

// CreateTagRequest defines the data needed to create a tag.
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// TagResponse is a tag as returned by the API.
type TagResponse struct {
	TagID     string `json:"tagID"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

// ToTagResponses converts tags to their response shape.
func ToTagResponses(tags []domain.Tag) []TagResponse {
	res := make([]TagResponse, len(tags))
	for i, t := range tags {
		res[i] = TagResponse{TagID: t.TagID, Name: t.Name, Color: t.Color, IsDefault: t.IsDefault()}
	}
	return res
}
