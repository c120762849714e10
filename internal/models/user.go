package models

import (
	"database/sql"
)

// User is a row of the users table. Columns that may be NULL use sql.Null types.
type User struct {
	UserID          string         `db:"user_id"`
	Email           string         `db:"email"`
	Username        sql.NullString `db:"username"`      // NULL until registration completes
	PasswordHash    sql.NullString `db:"password_hash"` // NULL for Google accounts
	FirstName       string         `db:"first_name"`
	LastName        string         `db:"last_name"`
	PhoneNumber     string         `db:"phone_number"`
	DateOfBirth     sql.NullTime   `db:"date_of_birth"`
	DefaultCurrency string         `db:"default_currency"`
	AuthStatus      string         `db:"auth_status"`
	AuthProvider    string         `db:"auth_provider"`
	ProviderUserID  sql.NullString `db:"provider_user_id"`
	IsStaff         bool           `db:"is_staff"`
	AuditFields

	// Refresh Token Fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`        // Store hash of the refresh token
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"` // Expiry of the stored refresh token
}
