package services

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
)

// fallbackCurrencyCode is used when neither the user nor the service has a currency configured.
const fallbackCurrencyCode = "UZS"

// userCurrency resolves the currency a user's amounts are reported in.
type userCurrency struct {
	users    portsrepo.UserReader
	fallback string
}

func (u userCurrency) of(ctx context.Context, userID string) (string, error) {
	if u.users == nil {
		return u.fallback, nil
	}
	user, err := u.users.FindUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user currency: %w", err)
	}
	if user.DefaultCurrency == "" {
		return u.fallback, nil
	}
	return user.DefaultCurrency, nil
}
