package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(4)
		require.NoError(t, err)
		assert.Len(t, code, 4)
		assert.Regexp(t, `^[0-9]{4}$`, code)
	}
	_, err := GenerateNumericCode(0)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("", ""))

	_, err = HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestRefreshTokenHash(t *testing.T) {
	raw, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Len(t, HashRefreshToken(raw), 64)
	assert.Equal(t, HashRefreshToken(raw), HashRefreshToken(raw))
	assert.NotEqual(t, HashRefreshToken(raw), HashRefreshToken(raw+"x"))
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", time.Minute, "finance-test")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "finance-test", claims.Issuer)

	assert.NotEmpty(t, claims.ID)

	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	noExpiry, err := none.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(noExpiry, "secret")
	assert.Error(t, err)
}

func TestFormatWithCurrencyPrecision(t *testing.T) {
	amount := decimal.RequireFromString("12.3456")
	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(amount, domain.Currency{CurrencyCode: "USD", Precision: 2}))
	assert.Equal(t, "12", FormatWithCurrencyPrecision(amount, domain.Currency{CurrencyCode: "JPY", Precision: 0}))
	assert.Equal(t, "126500.00", FormatWithPrecision(decimal.NewFromInt(126500), 2))
}

func TestFormatGrouped(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"253010", "253,010.00"},
		{"1234567.891", "1,234,567.89"},
		{"-1500", "-1,500.00"},
		{"-0.001", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatGrouped(decimal.RequireFromString(tt.in), 2))
		})
	}
	assert.Equal(t, "1,250,000", FormatGrouped(decimal.NewFromInt(1250000), 0))
}
