package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reportingFixture() (*MockTransactionRepository, *MockUserRepository, *MockStatementRenderer, portssvc.ReportingService) {
	txnRepo := new(MockTransactionRepository)
	userRepo := new(MockUserRepository)
	renderer := new(MockStatementRenderer)
	svc := services.NewReportingService(txnRepo, userRepo,
		services.WithStatementRenderer(renderer),
		services.WithReportingFallbackCurrency("UZS"))
	return txnRepo, userRepo, renderer, svc
}

func march2026() domain.DateRange {
	return domain.DateRange{
		Start: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestReportingService_Statistics(t *testing.T) {
	txnRepo, userRepo, _, svc := reportingFixture()
	userID := uuid.NewString()
	period := march2026()

	userRepo.On("FindUserByID", mock.Anything, userID).Return(&domain.User{UserID: userID}, nil).Once()
	txnRepo.On("SumByCategory", mock.Anything, userID, period).Return([]domain.CategoryTotal{
		{CategoryName: "Salary", Type: domain.Income, Total: decimal.NewFromInt(5000000), Count: 1},
		{CategoryName: "Food", Type: domain.Expense, Total: decimal.NewFromInt(1200000), Count: 14},
		{CategoryName: "Transport", Type: domain.Expense, Total: decimal.NewFromInt(300000), Count: 9},
	}, nil).Once()

	stats, err := svc.Statistics(context.Background(), userID, period)

	require.NoError(t, err)
	assert.Equal(t, "UZS", stats.Currency)
	assert.True(t, stats.TotalIncome.Equal(decimal.NewFromInt(5000000)))
	assert.True(t, stats.TotalExpense.Equal(decimal.NewFromInt(1500000)))
	assert.True(t, stats.NetBalance.Equal(decimal.NewFromInt(3500000)))
	assert.Equal(t, 24, stats.TransactionCount)
	assert.Len(t, stats.TopIncomeSources, 1)
	require.Len(t, stats.TopExpenseSources, 2)
	assert.Equal(t, "Food", stats.TopExpenseSources[0].CategoryName)
}

func TestReportingService_InvertedPeriod(t *testing.T) {
	_, _, _, svc := reportingFixture()
	period := march2026()
	period.Start, period.End = period.End, period.Start

	_, err := svc.ByCategory(context.Background(), uuid.NewString(), period)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReportingService_ByDate(t *testing.T) {
	txnRepo, _, _, svc := reportingFixture()
	userID := uuid.NewString()
	period := march2026()

	t.Run("defaults to daily buckets", func(t *testing.T) {
		txnRepo.On("SumByDate", mock.Anything, userID, period, domain.GroupByDay).Return(nil, nil).Once()

		totals, err := svc.ByDate(context.Background(), userID, period, "")

		require.NoError(t, err)
		assert.NotNil(t, totals)
	})

	t.Run("rejects unknown grouping", func(t *testing.T) {
		_, err := svc.ByDate(context.Background(), userID, period, domain.Grouping("quarter"))

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestReportingService_ExportStatement(t *testing.T) {
	txnRepo, userRepo, renderer, svc := reportingFixture()
	userID := uuid.NewString()
	period := march2026()
	user := &domain.User{UserID: userID, FirstName: "Ali", LastName: "Valiyev", Email: "ali@example.com", DefaultCurrency: "UZS"}
	txns := []domain.Transaction{
		{TransactionID: uuid.NewString(), Type: domain.Income, AmountInUserCurrency: decimal.NewFromInt(1000)},
		{TransactionID: uuid.NewString(), Type: domain.Expense, AmountInUserCurrency: decimal.NewFromInt(250)},
	}

	userRepo.On("FindUserByID", mock.Anything, userID).Return(user, nil).Once()
	txnRepo.On("ListTransactions", mock.Anything, userID, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.DateAfter != nil && f.DateAfter.Equal(period.Start) && f.OrderBy == "date"
	})).Return(txns, len(txns), nil).Once()
	renderer.On("Render", mock.MatchedBy(func(s domain.Statement) bool {
		return s.UserName == "Ali Valiyev" && s.TotalIncome.Equal(decimal.NewFromInt(1000)) && s.TotalExpense.Equal(decimal.NewFromInt(250))
	})).Return([]byte("%PDF-1.3"), nil).Once()

	doc, err := svc.ExportStatement(context.Background(), userID, period)

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), doc)
	renderer.AssertExpectations(t)
}

func TestReportingService_ExportStatementWithoutRenderer(t *testing.T) {
	svc := services.NewReportingService(new(MockTransactionRepository), new(MockUserRepository))

	_, err := svc.ExportStatement(context.Background(), uuid.NewString(), march2026())

	assert.ErrorIs(t, err, apperrors.ErrInternal)
}
