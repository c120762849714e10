package services

import (
	"fmt"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// requireMoneyScale rejects amounts the money columns would have to round.
func requireMoneyScale(field string, d decimal.Decimal) error {
	if !domain.HasMoneyScale(d) {
		return fmt.Errorf("%w: %s allows at most %d decimal places", apperrors.ErrValidation, field, domain.MoneyScale)
	}
	return nil
}
