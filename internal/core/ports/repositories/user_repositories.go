package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user by external auth provider and provider user ID.
	FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)

	// FindUserByRefreshTokenHash retrieves the user holding the given refresh token hash.
	FindUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates profile fields, password hash, default currency and auth status.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores a refresh token hash and its expiry. An empty hash revokes it.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt *time.Time) error

	// DeleteUser removes a user and everything they own.
	DeleteUser(ctx context.Context, userID string) error
}

// VerificationCodeRepository stores signup verification codes.
type VerificationCodeRepository interface {
	SaveVerificationCode(ctx context.Context, code domain.VerificationCode) error

	// FindLatestVerificationCode returns the user's newest code.
	FindLatestVerificationCode(ctx context.Context, userID string) (*domain.VerificationCode, error)

	ConfirmVerificationCode(ctx context.Context, codeID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	VerificationCodeRepository
}
