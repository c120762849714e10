package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/models"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                 d.UserID,
		Email:                  d.Email,
		Username:               nullString(d.Username),
		PasswordHash:           nullString(d.PasswordHash),
		FirstName:              d.FirstName,
		LastName:               d.LastName,
		PhoneNumber:            d.PhoneNumber,
		DateOfBirth:            nullTime(d.DateOfBirth),
		DefaultCurrency:        d.DefaultCurrency,
		AuthStatus:             string(d.AuthStatus),
		AuthProvider:           string(d.AuthProvider),
		ProviderUserID:         nullString(d.ProviderUserID),
		IsStaff:                d.IsStaff,
		AuditFields:            ToModelAuditFields(d.AuditFields),
		RefreshTokenHash:       nullString(d.RefreshTokenHash),
		RefreshTokenExpiryTime: nullTime(d.RefreshTokenExpiryTime),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                 m.UserID,
		Email:                  m.Email,
		Username:               m.Username.String,
		PasswordHash:           m.PasswordHash.String,
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		PhoneNumber:            m.PhoneNumber,
		DateOfBirth:            timePtr(m.DateOfBirth),
		DefaultCurrency:        m.DefaultCurrency,
		AuthStatus:             domain.AuthStatus(m.AuthStatus),
		AuthProvider:           domain.AuthProvider(m.AuthProvider),
		ProviderUserID:         m.ProviderUserID.String,
		IsStaff:                m.IsStaff,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
		RefreshTokenHash:       m.RefreshTokenHash.String,
		RefreshTokenExpiryTime: timePtr(m.RefreshTokenExpiryTime),
	}
}
