package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/platform/config"
	"github.com/SscSPs/personal_finance_app/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const (
	verificationCodeDigits = 4
	minPasswordLength      = 8
)

// AuthOption is a functional option for configuring the auth service
type AuthOption func(*authService)

// WithVerificationTiming sets how long a code lives and how often a new one may be sent.
func WithVerificationTiming(ttl, resendInterval time.Duration) AuthOption {
	return func(s *authService) {
		s.codeTTL = ttl
		s.resendInterval = resendInterval
	}
}

// WithDefaultCurrency sets the currency new users report in.
func WithDefaultCurrency(code string) AuthOption {
	return func(s *authService) {
		s.defaultCurrency = strings.ToUpper(code)
	}
}

// authService drives email registration, password login and Google sign-in.
type authService struct {
	BaseService
	userRepo        portsrepo.UserRepositoryFacade
	codeTTL         time.Duration
	resendInterval  time.Duration
	defaultCurrency string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, notifier portssvc.Notifier, options ...AuthOption) portssvc.AuthSvcFacade {
	svc := &authService{
		BaseService:     BaseService{Notifier: notifier},
		userRepo:        userRepo,
		codeTTL:         5 * time.Minute,
		resendInterval:  2 * time.Minute,
		defaultCurrency: fallbackCurrencyCode,
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userByEmail loads a user for the registration steps, which report a missing user as not found.
func (s *authService) userByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// issueCode stores a fresh verification code and hands it to the notifier.
func (s *authService) issueCode(ctx context.Context, user *domain.User) error {
	code, err := utils.GenerateNumericCode(verificationCodeDigits)
	if err != nil {
		return err
	}
	now := nowUTC()
	vc := domain.VerificationCode{
		CodeID:    uuid.NewString(),
		UserID:    user.UserID,
		Code:      code,
		ExpiresAt: now.Add(s.codeTTL),
		CreatedAt: now,
	}
	if err := s.userRepo.SaveVerificationCode(ctx, vc); err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}
	if s.Notifier == nil {
		s.LogInfo(ctx, "No notifier configured, verification code not delivered", slog.String("user_id", user.UserID))
		return nil
	}
	if err := s.Notifier.SendVerificationCode(ctx, user.Email, code); err != nil {
		s.LogError(ctx, err, "Failed to send verification code", slog.String("user_id", user.UserID))
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to send verification code", err)
	}
	return nil
}

func (s *authService) Signup(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil && user.AuthStatus == domain.AuthStatusDone:
		return fmt.Errorf("%w: user with this email already exists", apperrors.ErrDuplicate)
	case err == nil:
		// Unfinished signup, send a new code to the same user.
	case errors.Is(err, apperrors.ErrNotFound):
		now := nowUTC()
		user = &domain.User{
			UserID:          uuid.NewString(),
			Email:           email,
			DefaultCurrency: s.defaultCurrency,
			AuthStatus:      domain.AuthStatusNew,
			AuthProvider:    domain.ProviderLocal,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.userRepo.SaveUser(ctx, *user); err != nil {
			s.LogError(ctx, err, "Failed to create user on signup")
			return err
		}
		s.LogInfo(ctx, "User created on signup", slog.String("user_id", user.UserID))
	default:
		return err
	}
	return s.issueCode(ctx, user)
}

func (s *authService) VerifyCode(ctx context.Context, email, code string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.AuthStatus == domain.AuthStatusDone {
		return fmt.Errorf("%w: registration is already completed", apperrors.ErrValidation)
	}

	invalid := fmt.Errorf("%w: invalid or expired verification code", apperrors.ErrValidation)
	latest, err := s.userRepo.FindLatestVerificationCode(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return invalid
		}
		return err
	}
	if !latest.IsUsable(nowUTC()) || subtle.ConstantTimeCompare([]byte(latest.Code), []byte(code)) != 1 {
		return invalid
	}

	if err := s.userRepo.ConfirmVerificationCode(ctx, latest.CodeID); err != nil {
		return fmt.Errorf("failed to confirm verification code: %w", err)
	}
	user.AuthStatus = domain.AuthStatusCodeVerified
	user.LastUpdatedAt = nowUTC()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to update auth status: %w", err)
	}
	s.LogInfo(ctx, "Email verified", slog.String("user_id", user.UserID))
	return nil
}

func (s *authService) ResendCode(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.AuthStatus == domain.AuthStatusDone {
		return fmt.Errorf("%w: email already verified and registration completed", apperrors.ErrValidation)
	}

	latest, err := s.userRepo.FindLatestVerificationCode(ctx, user.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if latest != nil && nowUTC().Sub(latest.CreatedAt) < s.resendInterval {
		return fmt.Errorf("%w: please wait %s before requesting a new code", apperrors.ErrTooManyRequests, s.resendInterval)
	}
	return s.issueCode(ctx, user)
}

func (s *authService) CompleteRegistration(ctx context.Context, req dto.CompleteRegistrationRequest) (*domain.User, error) {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user.AuthStatus != domain.AuthStatusCodeVerified {
		return nil, fmt.Errorf("%w: please verify your email first", apperrors.ErrValidation)
	}
	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username, user.UserID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.Username = username
	user.PasswordHash = hash
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	user.DateOfBirth = req.DateOfBirth
	user.AuthStatus = domain.AuthStatusDone
	user.LastUpdatedAt = nowUTC()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to complete registration", slog.String("user_id", user.UserID))
		return nil, err
	}
	s.LogInfo(ctx, "Registration completed", slog.String("user_id", user.UserID))
	return user, nil
}

// ensureUsernameFree fails with ErrDuplicate when another user holds username.
func (s *authService) ensureUsernameFree(ctx context.Context, username, userID string) error {
	return usernameFree(ctx, s.userRepo, username, userID)
}

func usernameFree(ctx context.Context, users portsrepo.UserReader, username, userID string) error {
	existing, err := users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("%w: username already taken", apperrors.ErrDuplicate)
	}
	return nil
}

func checkNewPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", apperrors.ErrValidation)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, login, password string) (*domain.User, error) {
	invalid := fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)

	login = strings.TrimSpace(login)
	user, err := s.userRepo.FindUserByUsername(ctx, login)
	if errors.Is(err, apperrors.ErrNotFound) {
		user, err = s.userRepo.FindUserByEmail(ctx, normalizeEmail(login))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch on login", slog.String("user_id", user.UserID))
		return nil, invalid
	}
	if user.AuthStatus != domain.AuthStatusDone {
		return nil, fmt.Errorf("%w: please complete your registration first", apperrors.ErrValidation)
	}
	return user, nil
}

func (s *authService) LoginWithGoogle(ctx context.Context, name, email, providerUserID string, emailVerified bool) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, domain.ProviderGoogle, providerUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if !emailVerified {
		return nil, fmt.Errorf("%w: google email is not verified", apperrors.ErrUnauthorized)
	}

	email = normalizeEmail(email)
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	now := nowUTC()

	user, err = s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		// Link the Google identity to the account registered with the same email.
		user.AuthProvider = domain.ProviderGoogle
		user.ProviderUserID = providerUserID
		if user.AuthStatus != domain.AuthStatusDone {
			if user.Username == "" {
				if user.Username, err = s.availableUsername(ctx, email); err != nil {
					return nil, err
				}
			}
			user.FirstName, user.LastName = first, last
			user.AuthStatus = domain.AuthStatusDone
		}
		user.LastUpdatedAt = now
		if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Linked Google identity to existing user", slog.String("user_id", user.UserID))
		return user, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	username, err := s.availableUsername(ctx, email)
	if err != nil {
		return nil, err
	}
	user = &domain.User{
		UserID:          uuid.NewString(),
		Email:           email,
		Username:        username,
		FirstName:       first,
		LastName:        last,
		DefaultCurrency: s.defaultCurrency,
		AuthStatus:      domain.AuthStatusDone,
		AuthProvider:    domain.ProviderGoogle,
		ProviderUserID:  providerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to create Google user")
		return nil, err
	}
	s.LogInfo(ctx, "User created via Google", slog.String("user_id", user.UserID))
	return user, nil
}

// availableUsername derives a free username from the local part of an email.
func (s *authService) availableUsername(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	if len(base) < 3 {
		base += "user"
	}
	candidate := base
	for i := 0; i < 5; i++ {
		if err := usernameFree(ctx, s.userRepo, candidate, ""); err == nil {
			return candidate, nil
		} else if !errors.Is(err, apperrors.ErrDuplicate) {
			return "", err
		}
		suffix, err := utils.GenerateNumericCode(verificationCodeDigits)
		if err != nil {
			return "", err
		}
		candidate = base + suffix
	}
	return "", fmt.Errorf("%w: could not find a free username", apperrors.ErrDuplicate)
}

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
type tokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new refresh token for the given user.
// 32 random bytes give a 64-character hex string.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	rawRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate secure random string for refresh token: %w", err)
	}
	return rawRefreshToken, time.Now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}

func (s *tokenService) IssueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, accessExpiry, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), &refreshExpiry); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// ValidateRefreshToken looks the user up by the token hash and checks the stored expiry.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", apperrors.ErrUnauthorized)
	}
	user, err := s.userRepo.FindUserByRefreshTokenHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to retrieve user for refresh token validation: %w", err)
	}

	if user.RefreshTokenExpiryTime == nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return user, nil
}

func (s *tokenService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	user, err := s.ValidateRefreshToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrRefreshTokenExpired) {
		return err
	}
	if user == nil {
		// Expired tokens still hold a hash; look the owner up again to clear it.
		user, err = s.userRepo.FindUserByRefreshTokenHash(ctx, utils.HashRefreshToken(refreshToken))
		if err != nil {
			return err
		}
	}
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, "", nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	s.LogInfo(ctx, "Refresh token revoked", slog.String("user_id", user.UserID))
	return nil
}

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}
