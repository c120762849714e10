package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrencyCode accepts three upper case letters such as "UZS".
func ValidateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodePattern.MatchString(fl.Field().String())
}

// RegisterValidators adds the custom binding tags used by the request types.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("currency_code", ValidateCurrencyCode)
}
