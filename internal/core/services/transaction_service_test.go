package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/core/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	txnRepo      *MockTransactionRepository
	cardRepo     *MockCardRepository
	categoryRepo *MockCategoryRepository
	converter    *MockConverter
	userRepo     *MockUserRepository
	notifier     *MockNotifier
	budgets      *MockBudgetEvaluator
	service      portssvc.TransactionSvcFacade

	userID string
	card   domain.Card
	food   *domain.Category
	salary *domain.Category
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.txnRepo = new(MockTransactionRepository)
	suite.cardRepo = new(MockCardRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.converter = new(MockConverter)
	suite.userRepo = new(MockUserRepository)
	suite.notifier = new(MockNotifier)
	suite.budgets = new(MockBudgetEvaluator)
	suite.service = services.NewTransactionService(
		suite.txnRepo,
		suite.cardRepo,
		suite.categoryRepo,
		suite.converter,
		services.WithTransactionNotifier(suite.notifier),
		services.WithBudgetEvaluator(suite.budgets),
		services.WithTransactionUserCurrency(suite.userRepo, "UZS"),
	)

	suite.userID = uuid.NewString()
	suite.card = domain.Card{
		CardID:       uuid.NewString(),
		UserID:       suite.userID,
		CardName:     "Visa",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(100),
		Status:       domain.CardActive,
	}
	suite.food = &domain.Category{CategoryID: uuid.NewString(), Name: "Food", Type: domain.Expense, IsActive: true}
	suite.salary = &domain.Category{CategoryID: uuid.NewString(), Name: "Salary", Type: domain.Income, IsActive: true}

	suite.userRepo.On("FindUserByID", mock.Anything, suite.userID).
		Return(&domain.User{UserID: suite.userID, DefaultCurrency: "UZS"}, nil).Maybe()
}

func (suite *TransactionServiceTestSuite) lockCard() {
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.card.CardID}).
		Return(map[string]domain.Card{suite.card.CardID: suite.card}, nil).Once()
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseConvertsAndDebits() {
	ctx := context.Background()
	amount := decimal.NewFromInt(40)
	rate := decimal.NewFromInt(12000)

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.lockCard()
	suite.converter.On("Convert", mock.Anything, amount, "USD", "UZS", mock.Anything).
		Return(conversion(amount, "USD", "UZS", rate), nil).Once()
	suite.txnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.AmountInUserCurrency.Equal(decimal.NewFromInt(480000)) && t.ExchangeRateUsed != nil && t.UserCurrency == "UZS"
	}), []string{}).Return(nil).Once()
	suite.cardRepo.On("UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(d map[string]decimal.Decimal) bool {
		return d[suite.card.CardID].Equal(decimal.NewFromInt(-40))
	}), mock.Anything).Return(nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventTransactionCreated)).Return(nil).Once()
	suite.budgets.On("EvaluateCategory", mock.Anything, suite.userID, suite.food.CategoryID).Return([]domain.BudgetAlert{}, nil).Once()

	txn, balance, err := suite.service.CreateTransaction(ctx, suite.userID, dto.CreateTransactionRequest{
		CardID:     suite.card.CardID,
		CategoryID: suite.food.CategoryID,
		Type:       domain.Expense,
		Amount:     amount,
		Title:      "Lunch",
	})

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(60)))
	suite.Equal("Food", txn.CategoryName)
	suite.txnRepo.AssertExpectations(suite.T())
	suite.cardRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
	suite.budgets.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PublishesBudgetAlerts() {
	amount := decimal.NewFromInt(90)
	alert := domain.BudgetAlert{AlertType: domain.BudgetWarning, Severity: domain.SeverityMedium}

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.lockCard()
	suite.converter.On("Convert", mock.Anything, amount, "USD", "UZS", mock.Anything).
		Return(conversion(amount, "USD", "UZS", decimal.NewFromInt(12000)), nil).Once()
	suite.txnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.cardRepo.On("UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventTransactionCreated)).Return(nil).Once()
	suite.budgets.On("EvaluateCategory", mock.Anything, suite.userID, suite.food.CategoryID).Return([]domain.BudgetAlert{alert}, nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventBudgetThresholdReached)).Return(nil).Once()

	_, _, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
		CardID:     suite.card.CardID,
		CategoryID: suite.food.CategoryID,
		Type:       domain.Expense,
		Amount:     amount,
	})

	suite.Require().NoError(err)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_IncomeWithoutRateKeepsRawAmount() {
	amount := decimal.NewFromInt(500)

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.salary.CategoryID).Return(suite.salary, nil).Once()
	suite.lockCard()
	suite.converter.On("Convert", mock.Anything, amount, "USD", "UZS", mock.Anything).
		Return(nil, apperrors.ErrRateUnavailable).Once()
	suite.txnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.AmountInUserCurrency.Equal(amount) && t.ExchangeRateUsed == nil
	}), mock.Anything).Return(nil).Once()
	suite.cardRepo.On("UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventTransactionCreated)).Return(nil).Once()

	_, balance, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
		CardID:     suite.card.CardID,
		CategoryID: suite.salary.CategoryID,
		Type:       domain.Income,
		Amount:     amount,
	})

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(600)))
	suite.budgets.AssertNotCalled(suite.T(), "EvaluateCategory", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InsufficientFunds() {
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.lockCard()

	txn, _, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
		CardID:     suite.card.CardID,
		CategoryID: suite.food.CategoryID,
		Type:       domain.Expense,
		Amount:     decimal.NewFromInt(101),
	})

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.cardRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_CategoryTypeMismatch() {
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.salary.CategoryID).Return(suite.salary, nil).Once()

	_, _, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
		CardID:     suite.card.CardID,
		CategoryID: suite.salary.CategoryID,
		Type:       domain.Expense,
		Amount:     decimal.NewFromInt(5),
	})

	suite.ErrorIs(err, apperrors.ErrCategoryTypeMismatch)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsSubCentAmount() {
	_, _, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
		CardID:     suite.card.CardID,
		CategoryID: suite.food.CategoryID,
		Type:       domain.Expense,
		Amount:     decimal.RequireFromString("10.005"),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsNonPositiveAmount() {
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-3)} {
		_, _, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
			CardID:     suite.card.CardID,
			CategoryID: suite.food.CategoryID,
			Type:       domain.Expense,
			Amount:     amount,
		})
		suite.ErrorIs(err, apperrors.ErrValidation, amount.String())
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_OtherUsersCard() {
	foreign := suite.card
	foreign.UserID = uuid.NewString()

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, []string{foreign.CardID}).
		Return(map[string]domain.Card{foreign.CardID: foreign}, nil).Once()

	_, _, err := suite.service.CreateTransaction(context.Background(), suite.userID, dto.CreateTransactionRequest{
		CardID:     foreign.CardID,
		CategoryID: suite.food.CategoryID,
		Type:       domain.Expense,
		Amount:     decimal.NewFromInt(1),
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReversesBalance() {
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		CardID:        suite.card.CardID,
		Type:          domain.Expense,
		Amount:        decimal.NewFromInt(25),
	}
	suite.cardRepo.expectTx(nil)
	suite.txnRepo.On("FindTransactionsByIDsForUpdate", mock.Anything, mock.Anything, suite.userID, []string{txn.TransactionID}).
		Return([]domain.Transaction{txn}, nil).Once()
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.card.CardID}).
		Return(map[string]domain.Card{suite.card.CardID: suite.card}, nil).Once()
	suite.cardRepo.On("UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(d map[string]decimal.Decimal) bool {
		return d[suite.card.CardID].Equal(decimal.NewFromInt(25))
	}), mock.Anything).Return(nil).Once()
	suite.txnRepo.On("DeleteTransactionsInTx", mock.Anything, mock.Anything, []string{txn.TransactionID}).Return(1, nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventTransactionDeleted)).Return(nil).Once()

	err := suite.service.DeleteTransaction(context.Background(), suite.userID, txn.TransactionID)

	suite.Require().NoError(err)
	suite.cardRepo.AssertExpectations(suite.T())
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_IncomeAlreadySpent() {
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		CardID:        suite.card.CardID,
		Type:          domain.Income,
		Amount:        decimal.NewFromInt(150),
	}
	suite.cardRepo.expectTx(nil)
	suite.txnRepo.On("FindTransactionsByIDsForUpdate", mock.Anything, mock.Anything, suite.userID, []string{txn.TransactionID}).
		Return([]domain.Transaction{txn}, nil).Once()
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.card.CardID}).
		Return(map[string]domain.Card{suite.card.CardID: suite.card}, nil).Once()

	err := suite.service.DeleteTransaction(context.Background(), suite.userID, txn.TransactionID)

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.txnRepo.AssertNotCalled(suite.T(), "DeleteTransactionsInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotFound() {
	id := uuid.NewString()
	suite.cardRepo.expectTx(nil)
	suite.txnRepo.On("FindTransactionsByIDsForUpdate", mock.Anything, mock.Anything, suite.userID, []string{id}).
		Return([]domain.Transaction{}, nil).Once()

	err := suite.service.DeleteTransaction(context.Background(), suite.userID, id)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestBulkDeleteTransactions_RequiresIDs() {
	count, err := suite.service.BulkDeleteTransactions(context.Background(), suite.userID, nil)

	suite.Zero(count)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_ChangesCategoryOfSameType() {
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		CardID:        suite.card.CardID,
		CategoryID:    suite.food.CategoryID,
		Type:          domain.Expense,
		Amount:        decimal.NewFromInt(10),
	}
	transport := &domain.Category{CategoryID: uuid.NewString(), Name: "Transport", Type: domain.Expense, IsActive: true}
	title := "  Taxi  "

	suite.txnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, transport.CategoryID).Return(transport, nil).Once()
	suite.txnRepo.On("UpdateTransaction", mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.CategoryID == transport.CategoryID && t.Title == "Taxi" && t.Amount.Equal(decimal.NewFromInt(10))
	}), []string(nil)).Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(context.Background(), suite.userID, txn.TransactionID, dto.UpdateTransactionRequest{
		CategoryID: &transport.CategoryID,
		Title:      &title,
	})

	suite.Require().NoError(err)
	suite.Equal("Transport", updated.CategoryName)
	suite.txnRepo.AssertExpectations(suite.T())
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
