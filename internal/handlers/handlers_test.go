package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	transactionSvc *MockTransactionService
	transferSvc    *MockTransferService
	budgetSvc      *MockBudgetService
	currencySvc    *MockCurrencyService
	converter      *MockConverter
	jwtSecret      string
	userID         string
}

// generateTestToken creates a signed access token for userID.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finance-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	v, ok := binding.Validator.Engine().(*validator.Validate)
	suite.Require().True(ok)
	suite.Require().NoError(dto.RegisterValidators(v))
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.transactionSvc = new(MockTransactionService)
	suite.transferSvc = new(MockTransferService)
	suite.budgetSvc = new(MockBudgetService)
	suite.currencySvc = new(MockCurrencyService)
	suite.converter = new(MockConverter)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerTransactionRoutes(v1, suite.transactionSvc)
	registerTransferRoutes(v1, suite.transferSvc)
	registerBudgetRoutes(v1, suite.budgetSvc)
	registerCurrencyRoutes(v1, suite.currencySvc, suite.converter)
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) ErrorResponse {
	var body ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestCreateTransaction_Success() {
	cardID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID:        uuid.NewString(),
		CardID:               cardID,
		Type:                 domain.Expense,
		Amount:               decimal.NewFromInt(150),
		AmountInUserCurrency: decimal.NewFromInt(150),
		UserCurrency:         "UZS",
	}

	suite.transactionSvc.On("CreateTransaction",
		mock.Anything,
		suite.userID,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return r.CardID == cardID && r.Amount.Equal(decimal.NewFromInt(150)) && r.CategoryID == "default-food"
		}),
	).Return(txn, decimal.NewFromInt(850), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"cardID":     cardID,
		"categoryID": "default-food",
		"type":       "expense",
		"amount":     "150",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.TransactionCreateResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(txn.TransactionID, res.TransactionID)
	suite.True(res.CardBalance.Equal(decimal.NewFromInt(850)))
	suite.transactionSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateTransaction_InsufficientFunds() {
	suite.transactionSvc.On("CreateTransaction", mock.Anything, suite.userID, mock.Anything).
		Return(nil, decimal.Zero, fmt.Errorf("%w: card has 10", apperrors.ErrInsufficientFunds)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"cardID":     uuid.NewString(),
		"categoryID": "default-food",
		"type":       "expense",
		"amount":     "500",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("InsufficientFunds", suite.decodeError(w).Kind)
}

func (suite *HandlerTestSuite) TestCreateTransaction_InvalidType() {
	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"cardID":     uuid.NewString(),
		"categoryID": "default-food",
		"type":       "refund",
		"amount":     "5",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Validation", suite.decodeError(w).Kind)
	suite.transactionSvc.AssertNotCalled(suite.T(), "CreateTransaction")
}

func (suite *HandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Unauthorized", suite.decodeError(w).Kind)
	suite.transactionSvc.AssertNotCalled(suite.T(), "ListTransactions")
}

func (suite *HandlerTestSuite) TestCreateTransfer_SameCard() {
	cardID := uuid.NewString()
	suite.transferSvc.On("CreateTransfer", mock.Anything, suite.userID, mock.Anything).
		Return(nil, apperrors.ErrSameCard).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", map[string]any{
		"fromCardID": cardID,
		"toCardID":   cardID,
		"amount":     "10",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("SameCard", suite.decodeError(w).Kind)
}

func (suite *HandlerTestSuite) TestTransferRate_BadCurrencyCode() {
	w := suite.do(http.MethodGet, "/api/v1/transfers/rate?from=usd&to=UZS", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.transferSvc.AssertNotCalled(suite.T(), "Rate")
}

func (suite *HandlerTestSuite) TestConvert_RateUnavailable() {
	suite.converter.On("Convert", mock.Anything, mock.Anything, "USD", "EUR", mock.Anything).
		Return(nil, apperrors.ErrRateUnavailable).Once()

	w := suite.do(http.MethodGet, "/api/v1/currencies/convert?amount=100&from=USD&to=EUR", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("RateUnavailable", suite.decodeError(w).Kind)
}

func (suite *HandlerTestSuite) TestConvert_Success() {
	conv := &domain.Conversion{
		Amount:          decimal.NewFromInt(100),
		From:            "USD",
		To:              "UZS",
		ConvertedAmount: decimal.NewFromInt(1250000),
		ExchangeRate:    decimal.NewFromInt(12500),
		Date:            time.Now(),
	}
	suite.converter.On("Convert", mock.Anything,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
		"USD", "UZS", mock.Anything,
	).Return(conv, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/currencies/convert?amount=100&from=USD&to=UZS", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ConvertResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.ConvertedAmount.Equal(decimal.NewFromInt(1250000)))
}

func (suite *HandlerTestSuite) TestCreateBudget_DuplicateActive() {
	suite.budgetSvc.On("CreateBudget", mock.Anything, suite.userID, mock.Anything).
		Return(nil, apperrors.ErrDuplicateActiveBudget).Once()

	w := suite.do(http.MethodPost, "/api/v1/budgets", map[string]any{
		"categoryID":   "default-food",
		"amount":       "1000",
		"currencyCode": "UZS",
		"period":       "monthly",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("DuplicateActiveBudget", suite.decodeError(w).Kind)
}

func (suite *HandlerTestSuite) TestBudgetsByPeriod() {
	b := domain.Budget{BudgetID: uuid.NewString(), Amount: decimal.NewFromInt(100), Period: domain.PeriodMonthly, IsActive: true}
	usage := domain.NewBudgetUsage(b, domain.DateRange{}, decimal.NewFromInt(40))

	suite.budgetSvc.On("ListBudgets", mock.Anything, suite.userID,
		mock.MatchedBy(func(f domain.BudgetFilter) bool { return f.IsActive != nil && *f.IsActive }),
	).Return([]domain.BudgetUsage{usage}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/budgets/by-period", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res map[string][]json.RawMessage
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res["monthly"], 1)
	suite.Empty(res["weekly"])
	suite.Empty(res["yearly"])
}

func (suite *HandlerTestSuite) TestGetBudget_InternalErrorHidesDetails() {
	suite.budgetSvc.On("GetBudget", mock.Anything, suite.userID, "b1").
		Return(nil, fmt.Errorf("connection reset")).Once()

	w := suite.do(http.MethodGet, "/api/v1/budgets/b1", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := suite.decodeError(w)
	suite.Equal("Failed to retrieve budget", body.Error)
	suite.Equal("Internal", body.Kind)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("missing"), http.StatusNotFound},
		{"wrapped insufficient funds", fmt.Errorf("debit: %w", apperrors.ErrInsufficientFunds), http.StatusBadRequest},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"duplicate budget", apperrors.ErrDuplicateActiveBudget, http.StatusConflict},
		{"refresh expired", apperrors.ErrRefreshTokenExpired, http.StatusUnauthorized},
		{"too many requests", apperrors.ErrTooManyRequests, http.StatusTooManyRequests},
		{"app error keeps its code", apperrors.NewAppError(http.StatusGatewayTimeout, "timeout", nil), http.StatusGatewayTimeout},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
