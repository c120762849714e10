package accounting

import (
	"testing"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta(t *testing.T) {
	next, err := ApplyDelta("c1", decimal.NewFromInt(100), decimal.NewFromInt(-100))
	require.NoError(t, err)
	assert.True(t, next.IsZero())

	balance := decimal.RequireFromString("10.50")
	got, err := ApplyDelta("c1", balance, decimal.RequireFromString("-10.51"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.True(t, got.Equal(balance))
}

func TestReversalDeltas(t *testing.T) {
	txns := []domain.Transaction{
		{CardID: "a", Type: domain.Expense, Amount: decimal.NewFromInt(30)},
		{CardID: "a", Type: domain.Income, Amount: decimal.NewFromInt(10)},
		{CardID: "b", Type: domain.Income, Amount: decimal.NewFromInt(5)},
	}
	deltas := ReversalDeltas(txns)
	assert.True(t, deltas["a"].Equal(decimal.NewFromInt(20)))
	assert.True(t, deltas["b"].Equal(decimal.NewFromInt(-5)))

	for _, txn := range txns {
		assert.True(t, CreationDelta(txn).Add(ReversalDelta(txn)).IsZero())
	}
}

func TestTransferDeltas(t *testing.T) {
	tr := domain.CardTransfer{
		FromCardID:      "usd",
		ToCardID:        "uzs",
		Amount:          decimal.NewFromInt(10),
		ConvertedAmount: decimal.NewFromInt(126500),
	}
	deltas := TransferDeltas(tr)
	assert.True(t, deltas["usd"].Equal(decimal.NewFromInt(-10)))
	assert.True(t, deltas["uzs"].Equal(decimal.NewFromInt(126500)))
}
