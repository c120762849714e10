package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/personal_finance_app/internal/models"
	"github.com/SscSPs/personal_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, email, username, password_hash, first_name, last_name, phone_number, date_of_birth,
	default_currency, auth_status, auth_provider, provider_user_id, is_staff, created_at, last_updated_at,
	refresh_token_hash, refresh_token_expiry_time`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Email, &m.Username, &m.PasswordHash, &m.FirstName, &m.LastName, &m.PhoneNumber, &m.DateOfBirth,
		&m.DefaultCurrency, &m.AuthStatus, &m.AuthProvider, &m.ProviderUserID, &m.IsStaff, &m.CreatedAt, &m.LastUpdatedAt,
		&m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
	)
	return m, err
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+`;`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *PgxUserRepository) FindUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.findOne(ctx, "refresh_token_hash = $1", tokenHash)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth_provider = $1 AND provider_user_id = $2;`,
		string(provider), providerUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to find user by provider %s: %w", provider, err)
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		m.UserID, m.Email, m.Username, m.PasswordHash, m.FirstName, m.LastName, m.PhoneNumber, m.DateOfBirth,
		m.DefaultCurrency, m.AuthStatus, m.AuthProvider, m.ProviderUserID, m.IsStaff, m.CreatedAt, m.LastUpdatedAt,
		m.RefreshTokenHash, m.RefreshTokenExpiryTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email or username already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET username = $2, password_hash = $3, first_name = $4, last_name = $5, phone_number = $6,
			date_of_birth = $7, default_currency = $8, auth_status = $9, auth_provider = $10,
			provider_user_id = $11, last_updated_at = $12
		WHERE user_id = $1;`,
		m.UserID, m.Username, m.PasswordHash, m.FirstName, m.LastName, m.PhoneNumber,
		m.DateOfBirth, m.DefaultCurrency, m.AuthStatus, m.AuthProvider,
		m.ProviderUserID, m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username already taken", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user %s: %w", m.UserID, err)
	}
	return requireRow(tag, "user", m.UserID)
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt *time.Time) error {
	var hash *string
	if tokenHash != "" {
		hash = &tokenHash
	}
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expiry_time = $3
		WHERE user_id = $1;`, userID, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	return requireRow(tag, "user", userID)
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1;`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return requireRow(tag, "user", userID)
}

func (r *PgxUserRepository) SaveVerificationCode(ctx context.Context, code domain.VerificationCode) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO verification_codes (code_id, user_id, code, expires_at, is_confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		code.CodeID, code.UserID, code.Code, code.ExpiresAt, code.IsConfirmed, code.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindLatestVerificationCode(ctx context.Context, userID string) (*domain.VerificationCode, error) {
	var v domain.VerificationCode
	err := r.Pool.QueryRow(ctx, `
		SELECT code_id, user_id, code, expires_at, is_confirmed, created_at
		FROM verification_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1;`, userID).Scan(&v.CodeID, &v.UserID, &v.Code, &v.ExpiresAt, &v.IsConfirmed, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("verification code not found")
		}
		return nil, fmt.Errorf("failed to find verification code: %w", err)
	}
	return &v, nil
}

func (r *PgxUserRepository) ConfirmVerificationCode(ctx context.Context, codeID string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE verification_codes SET is_confirmed = TRUE WHERE code_id = $1;`, codeID)
	if err != nil {
		return fmt.Errorf("failed to confirm verification code: %w", err)
	}
	return requireRow(tag, "verification code", codeID)
}
