package services_test

import (
	"context"
	"fmt"
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

type CardServiceTestSuite struct {
	suite.Suite
	cardRepo    *MockCardRepository
	currencySvc *MockCurrencyService
	converter   *MockConverter
	userRepo    *MockUserRepository
	service     portssvc.CardSvcFacade
	userID      string
}

func (suite *CardServiceTestSuite) SetupTest() {
	suite.cardRepo = new(MockCardRepository)
	suite.currencySvc = new(MockCurrencyService)
	suite.converter = new(MockConverter)
	suite.userRepo = new(MockUserRepository)
	suite.userID = uuid.NewString()
	suite.service = services.NewCardService(
		suite.cardRepo,
		services.WithCardCurrencyService(suite.currencySvc),
		services.WithCardConverter(suite.converter),
		services.WithCardUserCurrency(suite.userRepo, "UZS"),
	)
}

func (suite *CardServiceTestSuite) card(status domain.CardStatus, currency string, balance int64) *domain.Card {
	return &domain.Card{
		CardID:       uuid.NewString(),
		UserID:       suite.userID,
		CardName:     "Main",
		CurrencyCode: currency,
		Balance:      decimal.NewFromInt(balance),
		Status:       status,
	}
}

func (suite *CardServiceTestSuite) TestCreateCard_FirstCardBecomesDefault() {
	ctx := context.Background()
	balance := decimal.NewFromInt(500000)
	req := dto.CreateCardRequest{CardName: "Humo", CurrencyCode: "uzs", Balance: &balance}

	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "UZS").Return(&domain.Currency{CurrencyCode: "UZS", IsActive: true}, nil).Once()
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("CountCardsForUpdateInTx", mock.Anything, mock.Anything, suite.userID).Return(0, nil).Once()
	suite.cardRepo.On("SaveCardInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Card) bool {
		return c.CurrencyCode == "UZS" && c.Balance.Equal(balance) && c.InitialBalance.Equal(balance) && c.Status == domain.CardActive
	})).Return(nil).Once()
	suite.cardRepo.On("SetDefaultCardInTx", mock.Anything, mock.Anything, suite.userID, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

	card, err := suite.service.CreateCard(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(card.IsDefault)
	suite.cardRepo.AssertExpectations(suite.T())
}

func (suite *CardServiceTestSuite) TestCreateCard_SecondCardNotDefault() {
	ctx := context.Background()
	req := dto.CreateCardRequest{CardName: "Visa", CurrencyCode: "USD"}

	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "USD").Return(&domain.Currency{CurrencyCode: "USD", IsActive: true}, nil).Once()
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("CountCardsForUpdateInTx", mock.Anything, mock.Anything, suite.userID).Return(1, nil).Once()
	suite.cardRepo.On("SaveCardInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Card")).Return(nil).Once()

	card, err := suite.service.CreateCard(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.False(card.IsDefault)
	suite.True(card.Balance.IsZero())
	suite.cardRepo.AssertNotCalled(suite.T(), "SetDefaultCardInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CardServiceTestSuite) TestCreateCard_CountFailureSavesNothing() {
	req := dto.CreateCardRequest{CardName: "Visa", CurrencyCode: "USD"}

	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "USD").Return(&domain.Currency{CurrencyCode: "USD", IsActive: true}, nil).Once()
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("CountCardsForUpdateInTx", mock.Anything, mock.Anything, suite.userID).
		Return(0, apperrors.NewNotFoundError("user "+suite.userID+" not found")).Once()

	card, err := suite.service.CreateCard(context.Background(), suite.userID, req)

	suite.Nil(card)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.cardRepo.AssertCalled(suite.T(), "Begin", mock.Anything)
	suite.cardRepo.AssertNotCalled(suite.T(), "SaveCardInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.cardRepo.AssertNotCalled(suite.T(), "ListCards", mock.Anything, mock.Anything, mock.Anything)
	suite.cardRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *CardServiceTestSuite) TestCreateCard_SubCentBalance() {
	balance := decimal.RequireFromString("100.005")
	req := dto.CreateCardRequest{CardName: "Visa", CurrencyCode: "USD", Balance: &balance}
	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "USD").Return(&domain.Currency{CurrencyCode: "USD", IsActive: true}, nil).Once()

	card, err := suite.service.CreateCard(context.Background(), suite.userID, req)

	suite.Nil(card)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CardServiceTestSuite) TestUpdateBalance_SubCentBalance() {
	req := dto.UpdateBalanceRequest{NewBalance: decimal.RequireFromString("12.345")}

	adj, err := suite.service.UpdateBalance(context.Background(), suite.userID, uuid.NewString(), req)

	suite.Nil(adj)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CardServiceTestSuite) TestCreateCard_InactiveCurrency() {
	req := dto.CreateCardRequest{CardName: "Old", CurrencyCode: "RUB"}
	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "RUB").
		Return(nil, fmt.Errorf("%w: currency RUB is not active", apperrors.ErrValidation)).Once()

	card, err := suite.service.CreateCard(context.Background(), suite.userID, req)

	suite.Nil(card)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CardServiceTestSuite) TestCreateCard_NegativeBalance() {
	negative := decimal.NewFromInt(-1)
	req := dto.CreateCardRequest{CardName: "Bad", CurrencyCode: "UZS", Balance: &negative}
	suite.currencySvc.On("GetActiveCurrency", mock.Anything, "UZS").Return(&domain.Currency{CurrencyCode: "UZS", IsActive: true}, nil).Once()

	card, err := suite.service.CreateCard(context.Background(), suite.userID, req)

	suite.Nil(card)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CardServiceTestSuite) TestGetCard_OtherUsersCardIsNotFound() {
	card := suite.card(domain.CardActive, "UZS", 10)
	card.UserID = uuid.NewString()
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()

	detail, err := suite.service.GetCard(context.Background(), suite.userID, card.CardID)

	suite.Nil(detail)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CardServiceTestSuite) TestSetDefaultCard_RequiresActiveCard() {
	card := suite.card(domain.CardBlocked, "UZS", 10)
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()

	result, err := suite.service.SetDefaultCard(context.Background(), suite.userID, card.CardID)

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CardServiceTestSuite) TestSetDefaultCard_Success() {
	card := suite.card(domain.CardActive, "UZS", 10)
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("SetDefaultCardInTx", mock.Anything, mock.Anything, suite.userID, card.CardID, mock.Anything).Return(nil).Once()

	result, err := suite.service.SetDefaultCard(context.Background(), suite.userID, card.CardID)

	suite.Require().NoError(err)
	suite.True(result.IsDefault)
	suite.cardRepo.AssertExpectations(suite.T())
}

func (suite *CardServiceTestSuite) TestChangeCardStatus_BlockingClearsDefault() {
	card := suite.card(domain.CardActive, "UZS", 10)
	card.IsDefault = true
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()
	suite.cardRepo.On("UpdateCardStatus", mock.Anything, card.CardID, domain.CardBlocked, mock.Anything).Return(nil).Once()

	result, err := suite.service.ChangeCardStatus(context.Background(), suite.userID, card.CardID, domain.CardBlocked)

	suite.Require().NoError(err)
	suite.Equal(domain.CardBlocked, result.Status)
	suite.False(result.IsDefault)
}

func (suite *CardServiceTestSuite) TestDeleteCard_WithTransactions() {
	card := suite.card(domain.CardActive, "UZS", 10)
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()
	suite.cardRepo.On("CountCardTransactions", mock.Anything, card.CardID).Return(3, nil).Once()

	err := suite.service.DeleteCard(context.Background(), suite.userID, card.CardID)

	suite.ErrorIs(err, apperrors.ErrHasTransactions)
	suite.cardRepo.AssertNotCalled(suite.T(), "DeleteCard", mock.Anything, mock.Anything)
}

func (suite *CardServiceTestSuite) TestDeleteCard_LastActiveCard() {
	card := suite.card(domain.CardActive, "UZS", 10)
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()
	suite.cardRepo.On("CountCardTransactions", mock.Anything, card.CardID).Return(0, nil).Once()
	suite.cardRepo.On("CountActiveCards", mock.Anything, suite.userID).Return(1, nil).Once()

	err := suite.service.DeleteCard(context.Background(), suite.userID, card.CardID)

	suite.ErrorIs(err, apperrors.ErrLastActiveCard)
}

func (suite *CardServiceTestSuite) TestDeleteCard_InactiveCardSkipsActiveCount() {
	card := suite.card(domain.CardInactive, "UZS", 10)
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()
	suite.cardRepo.On("CountCardTransactions", mock.Anything, card.CardID).Return(0, nil).Once()
	suite.cardRepo.On("DeleteCard", mock.Anything, card.CardID).Return(nil).Once()

	err := suite.service.DeleteCard(context.Background(), suite.userID, card.CardID)

	suite.Require().NoError(err)
	suite.cardRepo.AssertNotCalled(suite.T(), "CountActiveCards", mock.Anything, mock.Anything)
}

func (suite *CardServiceTestSuite) TestDeleteCard_ReferencedByTransfers() {
	card := suite.card(domain.CardInactive, "UZS", 10)
	suite.cardRepo.On("FindCardByID", mock.Anything, card.CardID).Return(card, nil).Once()
	suite.cardRepo.On("CountCardTransactions", mock.Anything, card.CardID).Return(0, nil).Once()
	suite.cardRepo.On("DeleteCard", mock.Anything, card.CardID).
		Return(fmt.Errorf("%w: card %s is referenced by transfers", apperrors.ErrHasTransactions, card.CardID)).Once()

	err := suite.service.DeleteCard(context.Background(), suite.userID, card.CardID)

	suite.ErrorIs(err, apperrors.ErrHasTransactions)
	suite.Equal("HasTransactions", apperrors.Kind(err))
}

func (suite *CardServiceTestSuite) TestUpdateBalance_ReportsDifference() {
	card := suite.card(domain.CardActive, "UZS", 1000)
	suite.cardRepo.expectTx(nil)
	suite.cardRepo.On("FindCardsByIDsForUpdate", mock.Anything, mock.Anything, []string{card.CardID}).
		Return(map[string]domain.Card{card.CardID: *card}, nil).Once()
	suite.cardRepo.On("SetCardBalanceInTx", mock.Anything, mock.Anything, card.CardID, decimal.NewFromInt(750), mock.Anything).Return(nil).Once()

	adj, err := suite.service.UpdateBalance(context.Background(), suite.userID, card.CardID, dto.UpdateBalanceRequest{
		NewBalance: decimal.NewFromInt(750),
		Reason:     "bank statement",
	})

	suite.Require().NoError(err)
	suite.True(adj.OldBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(adj.Difference.Equal(decimal.NewFromInt(-250)))
	suite.cardRepo.AssertExpectations(suite.T())
}

func (suite *CardServiceTestSuite) TestTotalBalance_FallsBackToRawBalanceWithoutRate() {
	uzs := suite.card(domain.CardActive, "UZS", 100000)
	usd := suite.card(domain.CardActive, "USD", 10)
	eur := suite.card(domain.CardActive, "EUR", 5)
	active := domain.CardActive

	suite.userRepo.On("FindUserByID", mock.Anything, suite.userID).Return(&domain.User{UserID: suite.userID, DefaultCurrency: "UZS"}, nil).Once()
	suite.cardRepo.On("ListCards", mock.Anything, suite.userID, domain.CardFilter{Status: &active}).
		Return([]domain.Card{*uzs, *usd, *eur}, nil).Once()
	suite.converter.On("Convert", mock.Anything, usd.Balance, "USD", "UZS", mock.Anything).
		Return(conversion(usd.Balance, "USD", "UZS", decimal.NewFromInt(12000)), nil).Once()
	suite.converter.On("Convert", mock.Anything, eur.Balance, "EUR", "UZS", mock.Anything).
		Return(nil, apperrors.ErrRateUnavailable).Once()

	total, err := suite.service.TotalBalance(context.Background(), suite.userID, "")

	suite.Require().NoError(err)
	suite.Equal("UZS", total.Currency)
	// 100000 + 10*12000 + 5 (raw)
	suite.True(total.TotalBalance.Equal(decimal.NewFromInt(220005)), total.TotalBalance.String())
	suite.Require().Len(total.Cards, 3)
	suite.False(total.Cards[2].Converted)
}

func TestCardService(t *testing.T) {
	suite.Run(t, new(CardServiceTestSuite))
}
