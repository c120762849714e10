package services_test

import (
	"context"
	"testing"
	"time"

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

type BudgetServiceTestSuite struct {
	suite.Suite
	budgetRepo   *MockBudgetRepository
	categoryRepo *MockCategoryRepository
	txnRepo      *MockTransactionRepository
	converter    *MockConverter
	currencySvc  *MockCurrencyService
	userRepo     *MockUserRepository
	service      portssvc.BudgetSvcFacade

	userID string
	food   *domain.Category
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.budgetRepo = new(MockBudgetRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.converter = new(MockConverter)
	suite.currencySvc = new(MockCurrencyService)
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewBudgetService(
		suite.budgetRepo,
		suite.categoryRepo,
		suite.txnRepo,
		suite.converter,
		suite.currencySvc,
		services.WithBudgetUserCurrency(suite.userRepo, "UZS"),
	)
	suite.userID = uuid.NewString()
	suite.food = &domain.Category{CategoryID: uuid.NewString(), Name: "Food", Type: domain.Expense, IsActive: true}
}

func (suite *BudgetServiceTestSuite) budget(amount int64, threshold int) domain.Budget {
	return domain.Budget{
		BudgetID:       uuid.NewString(),
		UserID:         suite.userID,
		CategoryID:     suite.food.CategoryID,
		Name:           "Monthly Food Budget",
		Amount:         decimal.NewFromInt(amount),
		CurrencyCode:   "UZS",
		Period:         domain.PeriodMonthly,
		AlertThreshold: threshold,
		IsActive:       true,
		CategoryName:   "Food",
	}
}

func (suite *BudgetServiceTestSuite) spending(budget domain.Budget, sums ...domain.CurrencyAmount) {
	if sums == nil {
		sums = []domain.CurrencyAmount{}
	}
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, budget.CategoryID, mock.AnythingOfType("domain.DateRange")).
		Return(sums, nil).Once()
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_DefaultsNameAndThreshold() {
	ctx := context.Background()
	req := dto.CreateBudgetRequest{
		CategoryID:   suite.food.CategoryID,
		Amount:       decimal.NewFromInt(1000000),
		CurrencyCode: "UZS",
		Period:       domain.PeriodMonthly,
	}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "UZS").Return(&domain.Currency{CurrencyCode: "UZS", IsActive: true}, nil).Once()
	suite.budgetRepo.On("SaveBudget", mock.Anything, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Name == "Monthly Food Budget" && b.AlertThreshold == 80 && b.IsActive
	})).Return(nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{}, nil).Once()

	usage, err := suite.service.CreateBudget(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(usage.Spent.IsZero())
	suite.Equal(domain.BudgetGood, usage.Status)
	suite.budgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_ZeroAmount() {
	req := dto.CreateBudgetRequest{
		CategoryID:   suite.food.CategoryID,
		Amount:       decimal.Zero,
		CurrencyCode: "UZS",
		Period:       domain.PeriodWeekly,
	}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "UZS").Return(&domain.Currency{CurrencyCode: "UZS", IsActive: true}, nil).Once()
	suite.budgetRepo.On("SaveBudget", mock.Anything, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Amount.IsZero()
	})).Return(nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{}, nil).Once()

	usage, err := suite.service.CreateBudget(context.Background(), suite.userID, req)

	suite.Require().NoError(err)
	suite.True(usage.PercentageUsed.IsZero())
	suite.True(usage.Remaining.IsZero())
	suite.False(usage.IsOverBudget)
	suite.Equal(domain.BudgetGood, usage.Status)
	suite.budgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_SubCentAmount() {
	_, err := suite.service.CreateBudget(context.Background(), suite.userID, dto.CreateBudgetRequest{
		CategoryID:   suite.food.CategoryID,
		Amount:       decimal.RequireFromString("99.999"),
		CurrencyCode: "UZS",
		Period:       domain.PeriodMonthly,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.budgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_IncomeCategoryRejected() {
	salary := &domain.Category{CategoryID: uuid.NewString(), Name: "Salary", Type: domain.Income}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, salary.CategoryID).Return(salary, nil).Once()

	_, err := suite.service.CreateBudget(context.Background(), suite.userID, dto.CreateBudgetRequest{
		CategoryID:   salary.CategoryID,
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "UZS",
		Period:       domain.PeriodWeekly,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.budgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_DuplicateActive() {
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, suite.food.CategoryID).Return(suite.food, nil).Once()
	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "UZS").Return(&domain.Currency{CurrencyCode: "UZS", IsActive: true}, nil).Once()
	suite.budgetRepo.On("SaveBudget", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicateActiveBudget).Once()

	_, err := suite.service.CreateBudget(context.Background(), suite.userID, dto.CreateBudgetRequest{
		CategoryID:   suite.food.CategoryID,
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "UZS",
		Period:       domain.PeriodMonthly,
	})

	suite.ErrorIs(err, apperrors.ErrDuplicateActiveBudget)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_InvalidThreshold() {
	threshold := 0
	_, err := suite.service.CreateBudget(context.Background(), suite.userID, dto.CreateBudgetRequest{
		CategoryID:     suite.food.CategoryID,
		Amount:         decimal.NewFromInt(10),
		CurrencyCode:   "UZS",
		Period:         domain.PeriodMonthly,
		AlertThreshold: &threshold,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestGetBudget_ConvertsForeignSpendingAndDropsUnrated() {
	b := suite.budget(1000000, 80)
	suite.budgetRepo.On("FindBudgetByID", mock.Anything, b.BudgetID).Return(&b, nil).Once()
	usd := decimal.NewFromInt(50)
	suite.spending(b,
		domain.CurrencyAmount{CurrencyCode: "UZS", Amount: decimal.NewFromInt(200000)},
		domain.CurrencyAmount{CurrencyCode: "USD", Amount: usd},
		domain.CurrencyAmount{CurrencyCode: "EUR", Amount: decimal.NewFromInt(30)},
	)
	suite.converter.On("Convert", mock.Anything, usd, "USD", "UZS", mock.Anything).
		Return(conversion(usd, "USD", "UZS", decimal.NewFromInt(12000)), nil).Once()
	suite.converter.On("Convert", mock.Anything, decimal.NewFromInt(30), "EUR", "UZS", mock.Anything).
		Return(nil, apperrors.ErrRateUnavailable).Once()

	usage, err := suite.service.GetBudget(context.Background(), suite.userID, b.BudgetID)

	suite.Require().NoError(err)
	suite.True(usage.Spent.Equal(decimal.NewFromInt(800000)), usage.Spent.String())
	suite.True(usage.Remaining.Equal(decimal.NewFromInt(200000)))
	suite.True(usage.PercentageUsed.Equal(decimal.NewFromInt(80)))
	suite.Equal(domain.BudgetWarning, usage.Status)
}

func (suite *BudgetServiceTestSuite) TestGetBudget_OtherUser() {
	b := suite.budget(100, 80)
	b.UserID = uuid.NewString()
	suite.budgetRepo.On("FindBudgetByID", mock.Anything, b.BudgetID).Return(&b, nil).Once()

	_, err := suite.service.GetBudget(context.Background(), suite.userID, b.BudgetID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BudgetServiceTestSuite) TestBudgetAlerts_OrderedBySeverityThenUsage() {
	warning := suite.budget(1000, 80)
	warning.Name = "Warning"
	over := suite.budget(100, 80)
	over.Name = "Over"
	fine := suite.budget(1000, 80)
	fine.Name = "Fine"

	active := true
	suite.budgetRepo.On("ListBudgets", mock.Anything, suite.userID, domain.BudgetFilter{IsActive: &active}).
		Return([]domain.Budget{warning, over, fine}, nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{{CurrencyCode: "UZS", Amount: decimal.NewFromInt(900)}}, nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{{CurrencyCode: "UZS", Amount: decimal.NewFromInt(150)}}, nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{{CurrencyCode: "UZS", Amount: decimal.NewFromInt(100)}}, nil).Once()

	alerts, err := suite.service.BudgetAlerts(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(alerts, 2)
	suite.Equal(domain.SeverityHigh, alerts[0].Severity)
	suite.Equal("Over", alerts[0].Usage.Budget.Name)
	suite.Contains(alerts[0].Message, "exceeded")
	suite.Equal(domain.BudgetWarning, alerts[1].AlertType)
}

func (suite *BudgetServiceTestSuite) TestBudgetOverview_CountsAndTotals() {
	b1 := suite.budget(1000, 80)
	b2 := suite.budget(100, 80)
	active := true

	suite.userRepo.On("FindUserByID", mock.Anything, suite.userID).Return(&domain.User{UserID: suite.userID, DefaultCurrency: "UZS"}, nil).Once()
	suite.budgetRepo.On("ListBudgets", mock.Anything, suite.userID, domain.BudgetFilter{IsActive: &active}).
		Return([]domain.Budget{b1, b2}, nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{{CurrencyCode: "UZS", Amount: decimal.NewFromInt(850)}}, nil).Once()
	suite.txnRepo.On("SumExpensesByCurrency", mock.Anything, suite.userID, suite.food.CategoryID, mock.Anything).
		Return([]domain.CurrencyAmount{{CurrencyCode: "UZS", Amount: decimal.NewFromInt(250)}}, nil).Once()

	overview, err := suite.service.BudgetOverview(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, overview.TotalBudgets)
	suite.Equal(1, overview.BudgetsOverLimit)
	suite.Equal(1, overview.BudgetsAtWarning)
	suite.True(overview.TotalBudgetAmount.Equal(decimal.NewFromInt(1100)))
	suite.True(overview.TotalSpent.Equal(decimal.NewFromInt(1100)))
	suite.True(overview.OverallPercentage.Equal(decimal.NewFromInt(100)))
}

func (suite *BudgetServiceTestSuite) TestToggleBudget() {
	b := suite.budget(100, 80)
	suite.budgetRepo.On("FindBudgetByID", mock.Anything, b.BudgetID).Return(&b, nil).Once()
	suite.budgetRepo.On("UpdateBudget", mock.Anything, mock.MatchedBy(func(u domain.Budget) bool { return !u.IsActive })).Return(nil).Once()
	suite.spending(b)

	usage, err := suite.service.ToggleBudget(context.Background(), suite.userID, b.BudgetID)

	suite.Require().NoError(err)
	suite.False(usage.Budget.IsActive)
}

func (suite *BudgetServiceTestSuite) TestSpendingHistory_OnlyMonthsWithSpending() {
	b := suite.budget(500, 80)
	suite.budgetRepo.On("FindBudgetByID", mock.Anything, b.BudgetID).Return(&b, nil).Once()
	suite.spending(b)
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	suite.txnRepo.On("SumMonthlyCategoryExpenses", mock.Anything, suite.userID, b.CategoryID, mock.AnythingOfType("time.Time")).
		Return([]domain.DateTotal{{Period: march, Expense: decimal.NewFromInt(600)}}, nil).Once()

	usage, history, err := suite.service.SpendingHistory(context.Background(), suite.userID, b.BudgetID, 0)

	suite.Require().NoError(err)
	suite.Equal(b.BudgetID, usage.Budget.BudgetID)
	suite.Require().Len(history, 1)
	suite.Equal("2026-03", history[0].Period)
	suite.True(history[0].WasOverBudget)
	suite.True(history[0].Percentage.Equal(decimal.NewFromInt(120)))
}

func (suite *BudgetServiceTestSuite) TestEvaluateCategory_FiltersByCategory() {
	b := suite.budget(100, 80)
	active := true
	suite.budgetRepo.On("ListBudgets", mock.Anything, suite.userID, domain.BudgetFilter{IsActive: &active, CategoryID: &b.CategoryID}).
		Return([]domain.Budget{b}, nil).Once()
	suite.spending(b, domain.CurrencyAmount{CurrencyCode: "UZS", Amount: decimal.NewFromInt(85)})

	alerts, err := suite.service.EvaluateCategory(context.Background(), suite.userID, b.CategoryID)

	suite.Require().NoError(err)
	suite.Require().Len(alerts, 1)
	suite.Equal(domain.SeverityMedium, alerts[0].Severity)
}

func TestBudgetService(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
