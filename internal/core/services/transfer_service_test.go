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

type TransferServiceTestSuite struct {
	suite.Suite
	transferRepo *MockTransferRepository
	cardRepo     *MockCardRepository
	converter    *MockConverter
	currencySvc  *MockCurrencyService
	notifier     *MockNotifier
	service      portssvc.TransferSvcFacade

	userID string
	uzs    domain.Card
	usd    domain.Card
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.transferRepo = new(MockTransferRepository)
	suite.cardRepo = new(MockCardRepository)
	suite.converter = new(MockConverter)
	suite.currencySvc = new(MockCurrencyService)
	suite.notifier = new(MockNotifier)
	suite.service = services.NewTransferService(suite.transferRepo, suite.cardRepo, suite.converter, suite.currencySvc, suite.notifier)

	suite.userID = uuid.NewString()
	suite.uzs = domain.Card{CardID: uuid.NewString(), UserID: suite.userID, CardName: "Humo", CurrencyCode: "UZS", Balance: decimal.NewFromInt(1000000), Status: domain.CardActive}
	suite.usd = domain.Card{CardID: uuid.NewString(), UserID: suite.userID, CardName: "Visa", CurrencyCode: "USD", Balance: decimal.NewFromInt(50), Status: domain.CardActive}
}

func (suite *TransferServiceTestSuite) request(from, to domain.Card, amount int64) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{FromCardID: from.CardID, ToCardID: to.CardID, Amount: decimal.NewFromInt(amount)}
}

func (suite *TransferServiceTestSuite) lock(cards ...domain.Card) {
	ids := make([]string, len(cards))
	locked := make(map[string]domain.Card, len(cards))
	for i, c := range cards {
		ids[i] = c.CardID
		locked[c.CardID] = c
	}
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, ids).Return(locked, nil).Once()
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_CrossCurrency() {
	ctx := context.Background()
	req := suite.request(suite.usd, suite.uzs, 20)
	rate := decimal.NewFromFloat(12650.5)

	suite.lock(suite.usd, suite.uzs)
	suite.converter.On("Convert", mock.Anything, req.Amount, "USD", "UZS", mock.Anything).
		Return(conversion(req.Amount, "USD", "UZS", rate), nil).Once()
	suite.cardRepo.On("UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(d map[string]decimal.Decimal) bool {
		return d[suite.usd.CardID].Equal(decimal.NewFromInt(-20)) && d[suite.uzs.CardID].Equal(decimal.NewFromInt(253010))
	}), mock.Anything).Return(nil).Once()
	suite.transferRepo.On("SaveTransferInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.CardTransfer")).Return(nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventTransferCompleted)).Return(nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(transfer.ConvertedAmount.Equal(decimal.NewFromInt(253010)))
	suite.True(transfer.ExchangeRate.Equal(rate))
	suite.Equal("USD", transfer.FromCurrencyCode)
	suite.cardRepo.AssertExpectations(suite.T())
	suite.transferRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_DollarsToSums() {
	ctx := context.Background()
	a := domain.Card{CardID: uuid.NewString(), UserID: suite.userID, CardName: "A", CurrencyCode: "USD", Balance: decimal.NewFromInt(100), Status: domain.CardActive}
	b := domain.Card{CardID: uuid.NewString(), UserID: suite.userID, CardName: "B", CurrencyCode: "UZS", Balance: decimal.Zero, Status: domain.CardActive}
	req := suite.request(a, b, 10)
	rate := decimal.NewFromInt(12650)

	suite.lock(a, b)
	suite.converter.On("Convert", mock.Anything, req.Amount, "USD", "UZS", mock.Anything).
		Return(conversion(req.Amount, "USD", "UZS", rate), nil).Once()
	var applied map[string]decimal.Decimal
	suite.cardRepo.On("UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("map[string]decimal.Decimal"), mock.Anything).
		Run(func(args mock.Arguments) { applied = args.Get(2).(map[string]decimal.Decimal) }).
		Return(nil).Once()
	var saved domain.CardTransfer
	suite.transferRepo.On("SaveTransferInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.CardTransfer")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(domain.CardTransfer) }).
		Return(nil).Once()
	suite.notifier.On("PublishEvent", mock.Anything, eventNamed(domain.EventTransferCompleted)).Return(nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().Len(applied, 2)
	suite.Equal("90", a.Balance.Add(applied[a.CardID]).String())
	suite.Equal("126500", b.Balance.Add(applied[b.CardID]).String())
	suite.Equal("12650", saved.ExchangeRate.String())
	suite.Equal("126500", saved.ConvertedAmount.String())
	suite.Equal("10", saved.Amount.String())
	suite.Equal(saved.TransferID, transfer.TransferID)
	suite.cardRepo.AssertCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SubCentAmount() {
	req := suite.request(suite.usd, suite.uzs, 0)
	req.Amount = decimal.RequireFromString("10.005")

	transfer, err := suite.service.CreateTransfer(context.Background(), suite.userID, req)

	suite.Nil(transfer)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.cardRepo.AssertNotCalled(suite.T(), "UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SameCard() {
	_, err := suite.service.CreateTransfer(context.Background(), suite.userID, suite.request(suite.uzs, suite.uzs, 10))

	suite.ErrorIs(err, apperrors.ErrSameCard)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_BelowMinimum() {
	req := suite.request(suite.usd, suite.uzs, 0)
	req.Amount = decimal.RequireFromString("0.001")

	_, err := suite.service.CreateTransfer(context.Background(), suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrBelowMinimum)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_InsufficientFunds() {
	suite.lock(suite.usd, suite.uzs)

	_, err := suite.service.CreateTransfer(context.Background(), suite.userID, suite.request(suite.usd, suite.uzs, 51))

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.balancesUntouched()
	suite.notifier.AssertNotCalled(suite.T(), "PublishEvent", mock.Anything, mock.Anything)
}

// balancesUntouched asserts a rejected transfer wrote nothing and rolled back.
func (suite *TransferServiceTestSuite) balancesUntouched() {
	suite.cardRepo.AssertNotCalled(suite.T(), "UpdateCardBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.transferRepo.AssertNotCalled(suite.T(), "SaveTransferInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.cardRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.cardRepo.AssertCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_ForeignDestination() {
	foreign := suite.uzs
	foreign.UserID = uuid.NewString()
	suite.lock(suite.usd, foreign)

	_, err := suite.service.CreateTransfer(context.Background(), suite.userID, suite.request(suite.usd, foreign, 5))

	suite.ErrorIs(err, apperrors.ErrInvalidCard)
	suite.balancesUntouched()
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_MissingCard() {
	missing := domain.Card{CardID: uuid.NewString()}
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.usd.CardID, missing.CardID}).
		Return(map[string]domain.Card{suite.usd.CardID: suite.usd}, nil).Once()

	_, err := suite.service.CreateTransfer(context.Background(), suite.userID, suite.request(suite.usd, missing, 5))

	suite.ErrorIs(err, apperrors.ErrInvalidCard)
	suite.balancesUntouched()
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_RateUnavailable() {
	suite.lock(suite.usd, suite.uzs)
	suite.converter.On("Convert", mock.Anything, decimal.NewFromInt(5), "USD", "UZS", mock.Anything).
		Return(nil, apperrors.ErrRateUnavailable).Once()

	_, err := suite.service.CreateTransfer(context.Background(), suite.userID, suite.request(suite.usd, suite.uzs, 5))

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.transferRepo.AssertNotCalled(suite.T(), "SaveTransferInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestPreviewTransfer_HasNoSideEffects() {
	req := suite.request(suite.uzs, suite.usd, 126505)
	rate := decimal.RequireFromString("0.000079")
	suite.cardRepo.On("FindCardByID", mock.Anything, suite.uzs.CardID).Return(&suite.uzs, nil).Once()
	suite.cardRepo.On("FindCardByID", mock.Anything, suite.usd.CardID).Return(&suite.usd, nil).Once()
	suite.converter.On("Convert", mock.Anything, req.Amount, "UZS", "USD", mock.Anything).
		Return(conversion(req.Amount, "UZS", "USD", rate), nil).Once()

	preview, err := suite.service.PreviewTransfer(context.Background(), suite.userID, req)

	suite.Require().NoError(err)
	suite.True(preview.NewFromBalance.Equal(decimal.NewFromInt(873495)))
	suite.True(preview.NewToBalance.Equal(suite.usd.Balance.Add(preview.Converted)))
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.notifier.AssertNotCalled(suite.T(), "PublishEvent", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestPreviewTransfer_UnknownCard() {
	id := uuid.NewString()
	suite.cardRepo.On("FindCardByID", mock.Anything, id).Return(nil, apperrors.NewNotFoundError("card not found")).Once()

	_, err := suite.service.PreviewTransfer(context.Background(), suite.userID, dto.CreateTransferRequest{
		FromCardID: id,
		ToCardID:   suite.usd.CardID,
		Amount:     decimal.NewFromInt(1),
	})

	suite.ErrorIs(err, apperrors.ErrInvalidCard)
}

func (suite *TransferServiceTestSuite) TestGetTransfer_OtherUser() {
	transfer := &domain.CardTransfer{TransferID: uuid.NewString(), UserID: uuid.NewString()}
	suite.transferRepo.On("FindTransferByID", mock.Anything, transfer.TransferID).Return(transfer, nil).Once()

	_, err := suite.service.GetTransfer(context.Background(), suite.userID, transfer.TransferID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestTransferHistory() {
	suite.transferRepo.On("ListTransfers", mock.Anything, suite.userID, (*string)(nil), 20).Return(nil, nil).Once()
	suite.transferRepo.On("MonthlyTransferStats", mock.Anything, suite.userID, mock.Anything).
		Return([]domain.MonthlyTransferStat{{Count: 2, Total: decimal.NewFromInt(30)}}, nil).Once()
	suite.transferRepo.On("CountTransfers", mock.Anything, suite.userID).Return(2, nil).Once()

	history, err := suite.service.TransferHistory(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(history.Recent)
	suite.Empty(history.Recent)
	suite.Len(history.MonthlyStats, 1)
	suite.Equal(2, history.TotalCount)
}

func (suite *TransferServiceTestSuite) TestRate_NotFound() {
	suite.currencySvc.On("GetCurrencyByCode", mock.Anything, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.currencySvc.On("GetCurrencyByCode", mock.Anything, "KZT").Return(&domain.Currency{CurrencyCode: "KZT"}, nil).Once()
	suite.converter.On("LatestRate", mock.Anything, "USD", "KZT", mock.Anything).Return(decimal.Zero, false, nil).Once()

	_, err := suite.service.Rate(context.Background(), "USD", "KZT")

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func TestTransferService(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
