package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyCodeValidator(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	type pair struct {
		Code string `validate:"currency_code"`
	}

	for _, code := range []string{"UZS", "USD", "EUR"} {
		assert.NoError(t, v.Struct(pair{Code: code}), code)
	}
	for _, code := range []string{"", "usd", "US", "USDT", "U1S"} {
		assert.Error(t, v.Struct(pair{Code: code}), code)
	}
}
