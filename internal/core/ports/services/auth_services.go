package services

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// AuthSvcFacade drives email registration and login.
type AuthSvcFacade interface {
	// Signup creates a user in the new status and sends a verification code.
	Signup(ctx context.Context, email string) error

	// VerifyCode confirms the latest code and moves the user to code_verified.
	VerifyCode(ctx context.Context, email, code string) error

	// ResendCode issues a new code, at most once per resend interval.
	ResendCode(ctx context.Context, email string) error

	// CompleteRegistration sets credentials and profile on a verified user.
	CompleteRegistration(ctx context.Context, req dto.CompleteRegistrationRequest) (*domain.User, error)

	// Login accepts a username or an email and requires a completed registration.
	Login(ctx context.Context, login, password string) (*domain.User, error)

	// LoginWithGoogle finds or creates the user for a validated Google identity.
	LoginWithGoogle(ctx context.Context, name, email, providerUserID string, emailVerified bool) (*domain.User, error)
}

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// IssueTokenPair creates an access token and a refresh token and stores the refresh token hash.
	IssueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error)

	// ValidateRefreshToken returns the user holding the refresh token if it has not expired.
	ValidateRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error)

	// RevokeRefreshToken clears the stored refresh token.
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
