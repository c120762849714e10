package domain

import "time"

// Category groups transactions of one type. A category without an owner is shared by all users.
type Category struct {
	CategoryID       string          `json:"categoryID"`
	UserID           string          `json:"userID"` // Empty for default categories
	Name             string          `json:"name"`
	Type             TransactionType `json:"type"`
	Icon             string          `json:"icon"`
	Color            string          `json:"color"`
	ParentCategoryID string          `json:"parentCategoryID"`
	ParentName       string          `json:"parentName"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// IsDefault reports whether the category is shared by all users.
func (c Category) IsDefault() bool {
	return c.UserID == ""
}

// VisibleTo reports whether userID may use the category.
func (c Category) VisibleTo(userID string) bool {
	return c.IsDefault() || c.UserID == userID
}

// FullName is "Parent > Child" for subcategories.
func (c Category) FullName() string {
	if c.ParentName != "" {
		return c.ParentName + " > " + c.Name
	}
	return c.Name
}

// Tag is a free-form label attached to transactions.
type Tag struct {
	TagID     string    `json:"tagID"`
	UserID    string    `json:"userID"` // Empty for default tags
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Tag) IsDefault() bool {
	return t.UserID == ""
}

func (t Tag) VisibleTo(userID string) bool {
	return t.IsDefault() || t.UserID == userID
}
