package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// UserStatistics summarises the user's cards, transactions and budgets.
	UserStatistics(ctx context.Context, userID string) (*domain.UserStatistics, error)

	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	IsEmailAvailable(ctx context.Context, email string) (bool, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// UpdateProfile updates an existing user.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)

	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error

	// DeleteAccount removes the user after checking the password.
	DeleteAccount(ctx context.Context, userID, password string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
