package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionManager ---

// MockTxManager hands out a nil pgx.Tx; repositories are mocked so the tx is never used.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// expectTx registers a transaction that commits with commitErr.
func (m *MockTxManager) expectTx(commitErr error) {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	m.On("Commit", mock.Anything, mock.Anything).Return(commitErr).Maybe()
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepositoryFacade = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context, includeInactive bool) ([]domain.Currency, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) FindLatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestRatesFrom(ctx context.Context, baseCode string, asOf time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, baseCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

var _ portssvc.CurrencyReaderSvc = (*MockCurrencyService)(nil)

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetActiveCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context, includeInactive bool) ([]domain.Currency, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock Converter ---
type MockConverter struct {
	mock.Mock
}

var _ portssvc.ConverterSvc = (*MockConverter)(nil)

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

// conversion builds the result the converter would return for rate.
func conversion(amount decimal.Decimal, from, to string, rate decimal.Decimal) *domain.Conversion {
	return &domain.Conversion{
		Amount:          amount,
		From:            from,
		To:              to,
		ConvertedAmount: amount.Mul(rate),
		ExchangeRate:    rate,
	}
}

// --- Mock CardRepository ---
type MockCardRepository struct {
	MockTxManager
}

var _ portsrepo.CardRepositoryWithTx = (*MockCardRepository)(nil)

func (m *MockCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListCards(ctx context.Context, userID string, filter domain.CardFilter) ([]domain.Card, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) CountActiveCards(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) CountCardTransactions(ctx context.Context, cardID string) (int, error) {
	args := m.Called(ctx, cardID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) ListCardTypes(ctx context.Context) ([]domain.CardType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardType), args.Error(1)
}

func (m *MockCardRepository) FindCardTypeByID(ctx context.Context, cardTypeID string) (*domain.CardType, error) {
	args := m.Called(ctx, cardTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardType), args.Error(1)
}

func (m *MockCardRepository) SaveCardInTx(ctx context.Context, tx pgx.Tx, card domain.Card) error {
	args := m.Called(ctx, tx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateCard(ctx context.Context, card domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, now time.Time) error {
	args := m.Called(ctx, cardID, status, now)
	return args.Error(0)
}

func (m *MockCardRepository) SetDefaultCardInTx(ctx context.Context, tx pgx.Tx, userID, cardID string, now time.Time) error {
	args := m.Called(ctx, tx, userID, cardID, now)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteCard(ctx context.Context, cardID string) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

func (m *MockCardRepository) FindCardsByIDsForUpdate(ctx context.Context, tx pgx.Tx, cardIDs []string) (map[string]domain.Card, error) {
	args := m.Called(ctx, tx, cardIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateCardBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, deltas, now)
	return args.Error(0)
}

func (m *MockCardRepository) CountCardsForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	args := m.Called(ctx, tx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) SetCardBalanceInTx(ctx context.Context, tx pgx.Tx, cardID string, balance decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, cardID, balance, now)
	return args.Error(0)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, userID string, txnType *domain.TransactionType) ([]domain.Category, error) {
	args := m.Called(ctx, userID, txnType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountCategoryTransactions(ctx context.Context, categoryID string) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) FindTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	args := m.Called(ctx, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *MockCategoryRepository) FindTagsByIDs(ctx context.Context, tagIDs []string) ([]domain.Tag, error) {
	args := m.Called(ctx, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockCategoryRepository) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	return m.Called(ctx, categoryID).Error(0)
}

func (m *MockCategoryRepository) SaveTag(ctx context.Context, tag domain.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *MockCategoryRepository) DeleteTag(ctx context.Context, tagID string) error {
	return m.Called(ctx, tagID).Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Int(1), args.Error(2)
}

func (m *MockTransactionRepository) CountUserTransactions(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, tagIDs []string) error {
	return m.Called(ctx, tx, txn, tagIDs).Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, tagIDs []string) error {
	return m.Called(ctx, txn, tagIDs).Error(0)
}

func (m *MockTransactionRepository) FindTransactionsByIDsForUpdate(ctx context.Context, tx pgx.Tx, userID string, ids []string) ([]domain.Transaction, error) {
	args := m.Called(ctx, tx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransactionsInTx(ctx context.Context, tx pgx.Tx, ids []string) (int, error) {
	args := m.Called(ctx, tx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) SumByCategory(ctx context.Context, userID string, period domain.DateRange) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockTransactionRepository) SumByDate(ctx context.Context, userID string, period domain.DateRange, grouping domain.Grouping) ([]domain.DateTotal, error) {
	args := m.Called(ctx, userID, period, grouping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DateTotal), args.Error(1)
}

func (m *MockTransactionRepository) SumByCard(ctx context.Context, userID string, period domain.DateRange) ([]domain.CardTotal, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardTotal), args.Error(1)
}

func (m *MockTransactionRepository) SumCardTransactions(ctx context.Context, cardID string, period domain.DateRange) (*domain.CardTransactionSummary, error) {
	args := m.Called(ctx, cardID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardTransactionSummary), args.Error(1)
}

func (m *MockTransactionRepository) SumExpensesByCurrency(ctx context.Context, userID, categoryID string, period domain.DateRange) ([]domain.CurrencyAmount, error) {
	args := m.Called(ctx, userID, categoryID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyAmount), args.Error(1)
}

func (m *MockTransactionRepository) SumMonthlyCategoryExpenses(ctx context.Context, userID, categoryID string, since time.Time) ([]domain.DateTotal, error) {
	args := m.Called(ctx, userID, categoryID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DateTotal), args.Error(1)
}

// --- Mock TransferRepository ---
type MockTransferRepository struct {
	mock.Mock
}

var _ portsrepo.TransferRepositoryFacade = (*MockTransferRepository)(nil)

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.CardTransfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardTransfer), args.Error(1)
}

func (m *MockTransferRepository) ListTransfers(ctx context.Context, userID string, cardID *string, limit int) ([]domain.CardTransfer, error) {
	args := m.Called(ctx, userID, cardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardTransfer), args.Error(1)
}

func (m *MockTransferRepository) CountTransfers(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransferRepository) MonthlyTransferStats(ctx context.Context, userID string, since time.Time) ([]domain.MonthlyTransferStat, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyTransferStat), args.Error(1)
}

func (m *MockTransferRepository) SaveTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CardTransfer) error {
	return m.Called(ctx, tx, transfer).Error(0)
}

// --- Mock BudgetRepository ---
type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryFacade = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.Budget, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) CountActiveBudgets(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	return m.Called(ctx, budgetID).Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, provider, providerUserID))
}

func (m *MockUserRepository) FindUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, tokenHash))
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt *time.Time) error {
	return m.Called(ctx, userID, tokenHash, expiresAt).Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) SaveVerificationCode(ctx context.Context, code domain.VerificationCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockUserRepository) FindLatestVerificationCode(ctx context.Context, userID string) (*domain.VerificationCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationCode), args.Error(1)
}

func (m *MockUserRepository) ConfirmVerificationCode(ctx context.Context, codeID string) error {
	return m.Called(ctx, codeID).Error(0)
}

// --- Mock SupportRepository ---
type MockSupportRepository struct {
	mock.Mock
}

var _ portsrepo.SupportRepositoryFacade = (*MockSupportRepository)(nil)

func (m *MockSupportRepository) SaveMessage(ctx context.Context, msg domain.SupportMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockSupportRepository) ListUserMessages(ctx context.Context, userID string) ([]domain.SupportMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupportMessage), args.Error(1)
}

func (m *MockSupportRepository) MarkThreadRead(ctx context.Context, userID string, adminReplies bool) error {
	return m.Called(ctx, userID, adminReplies).Error(0)
}

func (m *MockSupportRepository) CountUnread(ctx context.Context, userID string, adminReplies bool) (int, error) {
	args := m.Called(ctx, userID, adminReplies)
	return args.Int(0), args.Error(1)
}

func (m *MockSupportRepository) CountUnreadFromUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSupportRepository) ListConversations(ctx context.Context) ([]domain.SupportConversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupportConversation), args.Error(1)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockNotifier) PublishEvent(ctx context.Context, event domain.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

// eventNamed matches a published event by name.
func eventNamed(name string) any {
	return mock.MatchedBy(func(e domain.DomainEvent) bool { return e.Name == name })
}

// --- Mock BudgetEvaluator ---
type MockBudgetEvaluator struct {
	mock.Mock
}

var _ portssvc.BudgetEvaluator = (*MockBudgetEvaluator)(nil)

func (m *MockBudgetEvaluator) EvaluateCategory(ctx context.Context, userID, categoryID string) ([]domain.BudgetAlert, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetAlert), args.Error(1)
}

// --- Mock StatementRenderer ---
type MockStatementRenderer struct {
	mock.Mock
}

var _ portssvc.StatementRenderer = (*MockStatementRenderer)(nil)

func (m *MockStatementRenderer) Render(statement domain.Statement) ([]byte, error) {
	args := m.Called(statement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
