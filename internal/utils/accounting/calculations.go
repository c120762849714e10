package accounting

import (
	"fmt"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyDelta returns balance+delta, failing with ErrInsufficientFunds when the result would be negative.
// This is used by services and repositories so card balances follow one rule.
func ApplyDelta(cardID string, balance, delta decimal.Decimal) (decimal.Decimal, error) {
	next := balance.Add(delta)
	if next.IsNegative() {
		return balance, fmt.Errorf("%w: card %s has %s, needs %s", apperrors.ErrInsufficientFunds, cardID, balance.String(), delta.Neg().String())
	}
	return next, nil
}

// CreationDelta is the balance change a new transaction applies to its card.
func CreationDelta(txn domain.Transaction) decimal.Decimal {
	return txn.BalanceEffect()
}

// ReversalDelta undoes CreationDelta when a transaction is deleted.
func ReversalDelta(txn domain.Transaction) decimal.Decimal {
	return txn.BalanceEffect().Neg()
}

// ReversalDeltas sums the reversal of each transaction per card.
func ReversalDeltas(txns []domain.Transaction) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal)
	for _, t := range txns {
		deltas[t.CardID] = deltas[t.CardID].Add(ReversalDelta(t))
	}
	return deltas
}

// TransferDeltas are the paired balance changes of a transfer.
func TransferDeltas(t domain.CardTransfer) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		t.FromCardID: t.Amount.Neg(),
		t.ToCardID:   t.ConvertedAmount,
	}
}
