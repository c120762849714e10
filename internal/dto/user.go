package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// UserResponse is the profile as returned by the API.
type UserResponse struct {
	UserID          string              `json:"userID"`
	Email           string              `json:"email"`
	Username        string              `json:"username"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	FullName        string              `json:"fullName"`
	PhoneNumber     string              `json:"phoneNumber,omitempty"`
	DateOfBirth     *time.Time          `json:"dateOfBirth,omitempty"`
	DefaultCurrency string              `json:"defaultCurrency"`
	AuthProvider    domain.AuthProvider `json:"authProvider"`
	IsStaff         bool                `json:"isStaff"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:          user.UserID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		FullName:        user.FullName(),
		PhoneNumber:     user.PhoneNumber,
		DateOfBirth:     user.DateOfBirth,
		DefaultCurrency: user.DefaultCurrency,
		AuthProvider:    user.AuthProvider,
		IsStaff:         user.IsStaff,
		CreatedAt:       user.CreatedAt,
	}
}

// UpdateProfileRequest defines the data allowed for updating a profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateProfileRequest struct {
	Username        *string    `json:"username" binding:"omitempty,min=3,max=150"`
	FirstName       *string    `json:"firstName" binding:"omitempty,max=150"`
	LastName        *string    `json:"lastName" binding:"omitempty,max=150"`
	PhoneNumber     *string    `json:"phoneNumber" binding:"omitempty,max=20"`
	DateOfBirth     *time.Time `json:"dateOfBirth"`
	DefaultCurrency *string    `json:"defaultCurrency" binding:"omitempty,currency_code"`
}

// ChangePasswordRequest replaces the password after checking the old one.
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// DeleteAccountRequest confirms account deletion with the password.
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// CheckUsernameParams is the query for username availability.
type CheckUsernameParams struct {
	Username string `form:"username" binding:"required,min=3,max=150"`
}

// CheckEmailParams is the query for email availability.
type CheckEmailParams struct {
	Email string `form:"email" binding:"required,email"`
}

// AvailabilityResponse reports whether a username or email is free.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
