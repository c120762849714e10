package domain

import "time"

// AuthStatus tracks how far a user has progressed through registration.
type AuthStatus string

const (
	AuthStatusNew          AuthStatus = "new"
	AuthStatusCodeVerified AuthStatus = "code_verified"
	AuthStatusDone         AuthStatus = "done"
)

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents a user of the application in the domain.
type User struct {
	UserID          string       `json:"userID"`
	Email           string       `json:"email"`
	Username        string       `json:"username"`
	PasswordHash    string       `json:"-"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	PhoneNumber     string       `json:"phoneNumber"`
	DateOfBirth     *time.Time   `json:"dateOfBirth,omitempty"`
	DefaultCurrency string       `json:"defaultCurrency"`
	AuthStatus      AuthStatus   `json:"authStatus"`
	AuthProvider    AuthProvider `json:"authProvider"`
	ProviderUserID  string       `json:"-"`
	IsStaff         bool         `json:"isStaff"`
	AuditFields

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// VerificationCode is a short-lived code sent to a user's email during signup.
type VerificationCode struct {
	CodeID      string    `json:"codeID"`
	UserID      string    `json:"userID"`
	Code        string    `json:"-"`
	ExpiresAt   time.Time `json:"expiresAt"`
	IsConfirmed bool      `json:"isConfirmed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsUsable reports whether the code can still be confirmed at now.
func (v VerificationCode) IsUsable(now time.Time) bool {
	return !v.IsConfirmed && now.Before(v.ExpiresAt)
}

// UserStatistics summarises a user's activity for the profile screen.
type UserStatistics struct {
	ActiveCards       int       `json:"activeCards"`
	TotalTransactions int       `json:"totalTransactions"`
	ActiveBudgets     int       `json:"activeBudgets"`
	TotalBalance      string    `json:"totalBalance"`
	Currency          string    `json:"currency"`
	MemberSince       time.Time `json:"memberSince"`
}

// TokenPair is an access token and the refresh token that renews it.
type TokenPair struct {
	AccessToken      string    `json:"token"`
	AccessExpiresAt  time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
