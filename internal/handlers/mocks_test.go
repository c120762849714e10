package handlers

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Int(1), args.Error(2)
}
func (m *MockTransactionService) RecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, decimal.Decimal, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(decimal.Decimal), args.Error(2)
}
func (m *MockTransactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return m.Called(ctx, userID, transactionID).Error(0)
}
func (m *MockTransactionService) BulkDeleteTransactions(ctx context.Context, userID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, ids)
	return args.Int(0), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) CreateTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*domain.CardTransfer, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardTransfer), args.Error(1)
}
func (m *MockTransferService) PreviewTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*domain.TransferPreview, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferPreview), args.Error(1)
}
func (m *MockTransferService) ListTransfers(ctx context.Context, userID string, cardID *string) ([]domain.CardTransfer, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardTransfer), args.Error(1)
}
func (m *MockTransferService) GetTransfer(ctx context.Context, userID, transferID string) (*domain.CardTransfer, error) {
	args := m.Called(ctx, userID, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardTransfer), args.Error(1)
}
func (m *MockTransferService) TransferHistory(ctx context.Context, userID string) (*domain.TransferHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferHistory), args.Error(1)
}
func (m *MockTransferService) Rate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) usage(args mock.Arguments) (*domain.BudgetUsage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetUsage), args.Error(1)
}
func (m *MockBudgetService) GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetUsage, error) {
	return m.usage(m.Called(ctx, userID, budgetID))
}
func (m *MockBudgetService) ListBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.BudgetUsage, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetUsage), args.Error(1)
}
func (m *MockBudgetService) ActiveBudgets(ctx context.Context, userID string) ([]domain.BudgetUsage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetUsage), args.Error(1)
}
func (m *MockBudgetService) BudgetProgress(ctx context.Context, userID, budgetID string) (*domain.BudgetProgress, error) {
	args := m.Called(ctx, userID, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetProgress), args.Error(1)
}
func (m *MockBudgetService) BudgetOverview(ctx context.Context, userID string) (*domain.BudgetOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetOverview), args.Error(1)
}
func (m *MockBudgetService) BudgetAlerts(ctx context.Context, userID string) ([]domain.BudgetAlert, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetAlert), args.Error(1)
}
func (m *MockBudgetService) BudgetsByCategory(ctx context.Context, userID string) ([]domain.CategoryBudgets, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryBudgets), args.Error(1)
}
func (m *MockBudgetService) SpendingHistory(ctx context.Context, userID, budgetID string, monthsBack int) (*domain.BudgetUsage, []domain.BudgetHistoryPoint, error) {
	args := m.Called(ctx, userID, budgetID, monthsBack)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.BudgetUsage), args.Get(1).([]domain.BudgetHistoryPoint), args.Error(2)
}
func (m *MockBudgetService) CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetUsage, error) {
	return m.usage(m.Called(ctx, userID, req))
}
func (m *MockBudgetService) UpdateBudget(ctx context.Context, userID, budgetID string, req dto.UpdateBudgetRequest) (*domain.BudgetUsage, error) {
	return m.usage(m.Called(ctx, userID, budgetID, req))
}
func (m *MockBudgetService) ToggleBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetUsage, error) {
	return m.usage(m.Called(ctx, userID, budgetID))
}
func (m *MockBudgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	return m.Called(ctx, userID, budgetID).Error(0)
}
func (m *MockBudgetService) EvaluateCategory(ctx context.Context, userID, categoryID string) ([]domain.BudgetAlert, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetAlert), args.Error(1)
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) currency(args mock.Arguments) (*domain.Currency, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, currencyCode))
}
func (m *MockCurrencyService) GetActiveCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, currencyCode))
}
func (m *MockCurrencyService) ListCurrencies(ctx context.Context, includeInactive bool) ([]domain.Currency, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, req))
}
func (m *MockCurrencyService) UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, currencyCode, req))
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Mock Converter ---
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf time.Time) (*domain.Conversion, error) {
	args := m.Called(ctx, amount, fromCode, toCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}
func (m *MockConverter) LatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}
func (m *MockConverter) LatestRates(ctx context.Context, baseCode string, asOf time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, baseCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

var _ portssvc.ConverterSvc = (*MockConverter)(nil)
