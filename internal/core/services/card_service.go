package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cardService implements the CardSvcFacade interface
type cardService struct {
	BaseService
	cardRepo        portsrepo.CardRepositoryWithTx
	currencyService portssvc.CurrencyReaderSvc
	converter       portssvc.ConverterSvc
	aggregator      portsrepo.TransactionAggregator
	currency        userCurrency
}

// CardOption is a functional option for configuring the card service
type CardOption func(*cardService)

// WithCardCurrencyService adds the currency catalogue used to validate card currencies.
func WithCardCurrencyService(svc portssvc.CurrencyReaderSvc) CardOption {
	return func(s *cardService) {
		s.currencyService = svc
	}
}

// WithCardConverter adds the ledger used to total balances across currencies.
func WithCardConverter(converter portssvc.ConverterSvc) CardOption {
	return func(s *cardService) {
		s.converter = converter
	}
}

// WithCardAggregator adds the transaction aggregator used for card summaries.
func WithCardAggregator(agg portsrepo.TransactionAggregator) CardOption {
	return func(s *cardService) {
		s.aggregator = agg
	}
}

// WithCardUserCurrency sets how the user's default currency is resolved.
func WithCardUserCurrency(users portsrepo.UserReader, fallback string) CardOption {
	return func(s *cardService) {
		s.currency = userCurrency{users: users, fallback: fallback}
	}
}

// NewCardService creates a new card service with the provided options
func NewCardService(repo portsrepo.CardRepositoryWithTx, options ...CardOption) portssvc.CardSvcFacade {
	svc := &cardService{
		cardRepo: repo,
		currency: userCurrency{fallback: fallbackCurrencyCode},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CardSvcFacade = (*cardService)(nil)

// ownedCard loads a card and hides cards of other users behind ErrNotFound.
func (s *cardService) ownedCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardID)
	}
	return card, nil
}

func (s *cardService) validateCardType(ctx context.Context, cardTypeID string) error {
	if _, err := s.cardRepo.FindCardTypeByID(ctx, cardTypeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: card type %s does not exist", apperrors.ErrValidation, cardTypeID)
		}
		return err
	}
	return nil
}

func (s *cardService) CreateCard(ctx context.Context, userID string, req dto.CreateCardRequest) (*domain.Card, error) {
	currencyCode := strings.ToUpper(req.CurrencyCode)
	if s.currencyService != nil {
		if _, err := s.currencyService.GetActiveCurrency(ctx, currencyCode); err != nil {
			s.LogError(ctx, err, "Invalid card currency", slog.String("currency_code", currencyCode))
			return nil, err
		}
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative", apperrors.ErrValidation)
	}
	if err := requireMoneyScale("balance", balance); err != nil {
		return nil, err
	}

	cardTypeID := ""
	if req.CardTypeID != nil && *req.CardTypeID != "" {
		if err := s.validateCardType(ctx, *req.CardTypeID); err != nil {
			return nil, err
		}
		cardTypeID = *req.CardTypeID
	}

	now := nowUTC()
	card := domain.Card{
		CardID:          uuid.NewString(),
		UserID:          userID,
		CardName:        req.CardName,
		CardTypeID:      cardTypeID,
		CurrencyCode:    currencyCode,
		Balance:         balance,
		InitialBalance:  balance,
		CardNumberLast4: req.CardNumberLast4,
		BankName:        req.BankName,
		Color:           req.Color,
		Status:          domain.CardActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.cardRepo.Rollback(ctx, tx) }()

	existing, err := s.cardRepo.CountCardsForUpdateInTx(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing cards: %w", err)
	}
	makeDefault := req.IsDefault || existing == 0

	if err := s.cardRepo.SaveCardInTx(ctx, tx, card); err != nil {
		s.LogError(ctx, err, "Failed to save card", slog.String("user_id", userID))
		return nil, err
	}
	if makeDefault {
		if err := s.cardRepo.SetDefaultCardInTx(ctx, tx, userID, card.CardID, now); err != nil {
			return nil, err
		}
		card.IsDefault = true
	}
	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Card created",
		slog.String("card_id", card.CardID),
		slog.String("user_id", userID),
		slog.Bool("is_default", card.IsDefault))
	return &card, nil
}

func (s *cardService) ListCards(ctx context.Context, userID string, filter domain.CardFilter) ([]domain.Card, error) {
	cards, err := s.cardRepo.ListCards(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	if cards == nil {
		return []domain.Card{}, nil
	}
	return cards, nil
}

func (s *cardService) GetCard(ctx context.Context, userID, cardID string) (*domain.CardDetail, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	count, err := s.cardRepo.CountCardTransactions(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count card transactions: %w", err)
	}
	return &domain.CardDetail{Card: *card, TransactionCount: count}, nil
}

func (s *cardService) ListCardTypes(ctx context.Context) ([]domain.CardType, error) {
	types, err := s.cardRepo.ListCardTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list card types: %w", err)
	}
	if types == nil {
		return []domain.CardType{}, nil
	}
	return types, nil
}

func (s *cardService) UpdateCard(ctx context.Context, userID, cardID string, req dto.UpdateCardRequest) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if req.CardName != nil {
		card.CardName = *req.CardName
	}
	if req.CardTypeID != nil {
		if *req.CardTypeID != "" {
			if err := s.validateCardType(ctx, *req.CardTypeID); err != nil {
				return nil, err
			}
		}
		card.CardTypeID = *req.CardTypeID
	}
	if req.CardNumberLast4 != nil {
		card.CardNumberLast4 = *req.CardNumberLast4
	}
	if req.BankName != nil {
		card.BankName = *req.BankName
	}
	if req.Color != nil {
		card.Color = *req.Color
	}
	card.LastUpdatedAt = nowUTC()

	if err := s.cardRepo.UpdateCard(ctx, *card); err != nil {
		s.LogError(ctx, err, "Failed to update card", slog.String("card_id", cardID))
		return nil, err
	}
	return card, nil
}

func (s *cardService) SetDefaultCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, fmt.Errorf("%w: only active cards can be the default", apperrors.ErrValidation)
	}

	now := nowUTC()
	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.cardRepo.Rollback(ctx, tx) }()

	if err := s.cardRepo.SetDefaultCardInTx(ctx, tx, userID, cardID, now); err != nil {
		return nil, err
	}
	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	card.IsDefault = true
	card.LastUpdatedAt = now
	return card, nil
}

func (s *cardService) ChangeCardStatus(ctx context.Context, userID, cardID string, status domain.CardStatus) (*domain.Card, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown card status %q", apperrors.ErrValidation, status)
	}
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	if err := s.cardRepo.UpdateCardStatus(ctx, cardID, status, now); err != nil {
		s.LogError(ctx, err, "Failed to change card status",
			slog.String("card_id", cardID),
			slog.String("status", string(status)))
		return nil, err
	}

	card.Status = status
	if status != domain.CardActive {
		card.IsDefault = false
	}
	card.LastUpdatedAt = now
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, userID, cardID string) error {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return err
	}

	count, err := s.cardRepo.CountCardTransactions(ctx, cardID)
	if err != nil {
		return fmt.Errorf("failed to count card transactions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: card has %d transactions", apperrors.ErrHasTransactions, count)
	}

	if card.IsActive() {
		active, err := s.cardRepo.CountActiveCards(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count active cards: %w", err)
		}
		if active <= 1 {
			return apperrors.ErrLastActiveCard
		}
	}

	if err := s.cardRepo.DeleteCard(ctx, cardID); err != nil {
		s.LogError(ctx, err, "Failed to delete card", slog.String("card_id", cardID))
		return err
	}
	s.LogInfo(ctx, "Card deleted", slog.String("card_id", cardID), slog.String("user_id", userID))
	return nil
}

func (s *cardService) UpdateBalance(ctx context.Context, userID, cardID string, req dto.UpdateBalanceRequest) (*domain.BalanceAdjustment, error) {
	if req.NewBalance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative", apperrors.ErrValidation)
	}
	if err := requireMoneyScale("newBalance", req.NewBalance); err != nil {
		return nil, err
	}

	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.cardRepo.Rollback(ctx, tx) }()

	locked, err := s.cardRepo.FindCardsByIDsForUpdate(ctx, tx, []string{cardID})
	if err != nil {
		return nil, err
	}
	card, ok := locked[cardID]
	if !ok || card.UserID != userID {
		return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardID)
	}

	if err := s.cardRepo.SetCardBalanceInTx(ctx, tx, cardID, req.NewBalance, nowUTC()); err != nil {
		return nil, err
	}
	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	adj := &domain.BalanceAdjustment{
		CardID:     cardID,
		OldBalance: card.Balance,
		NewBalance: req.NewBalance,
		Difference: req.NewBalance.Sub(card.Balance),
		Reason:     req.Reason,
	}
	s.LogInfo(ctx, "Card balance corrected",
		slog.String("card_id", cardID),
		slog.String("old_balance", adj.OldBalance.String()),
		slog.String("new_balance", adj.NewBalance.String()),
		slog.String("reason", req.Reason))
	return adj, nil
}

func (s *cardService) TotalBalance(ctx context.Context, userID, currency string) (*domain.TotalBalance, error) {
	if currency == "" {
		var err error
		if currency, err = s.currency.of(ctx, userID); err != nil {
			return nil, err
		}
	}
	currency = strings.ToUpper(currency)

	active := domain.CardActive
	cards, err := s.cardRepo.ListCards(ctx, userID, domain.CardFilter{Status: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	total := &domain.TotalBalance{
		Currency:     currency,
		TotalBalance: decimal.Zero,
		Cards:        make([]domain.CardBalanceLine, 0, len(cards)),
	}
	for _, c := range cards {
		line, err := s.balanceLine(ctx, c, currency)
		if err != nil {
			return nil, err
		}
		total.TotalBalance = total.TotalBalance.Add(line.ConvertedBalance)
		total.Cards = append(total.Cards, line)
	}
	return total, nil
}

// balanceLine converts a card's balance, falling back to the raw balance when no rate exists.
func (s *cardService) balanceLine(ctx context.Context, c domain.Card, currency string) (domain.CardBalanceLine, error) {
	line := domain.CardBalanceLine{
		CardID:           c.CardID,
		CardName:         c.CardName,
		CurrencyCode:     c.CurrencyCode,
		Balance:          c.Balance,
		ConvertedBalance: c.Balance,
		Converted:        c.CurrencyCode == currency,
	}
	if line.Converted || s.converter == nil {
		return line, nil
	}
	conv, err := s.converter.Convert(ctx, c.Balance, c.CurrencyCode, currency, today())
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			s.LogDebug(ctx, "No rate for card balance, using raw amount",
				slog.String("card_id", c.CardID),
				slog.String("from", c.CurrencyCode),
				slog.String("to", currency))
			return line, nil
		}
		return line, err
	}
	line.ConvertedBalance = conv.ConvertedAmount
	line.Converted = true
	return line, nil
}

func (s *cardService) CardStatistics(ctx context.Context, userID string) (*domain.CardStatistics, error) {
	cards, err := s.cardRepo.ListCards(ctx, userID, domain.CardFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	stats := &domain.CardStatistics{
		TotalCards: len(cards),
		ByType:     make(map[string]int),
		ByCurrency: make(map[string]decimal.Decimal),
	}
	for _, c := range cards {
		switch c.Status {
		case domain.CardActive:
			stats.ActiveCards++
		case domain.CardInactive:
			stats.InactiveCards++
		case domain.CardBlocked:
			stats.BlockedCards++
		}
		typeName := c.CardTypeName
		if typeName == "" {
			typeName = "Other"
		}
		stats.ByType[typeName]++
		stats.ByCurrency[c.CurrencyCode] = stats.ByCurrency[c.CurrencyCode].Add(c.Balance)
	}

	total, err := s.TotalBalance(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	stats.TotalBalance = total.TotalBalance
	stats.Currency = total.Currency
	return stats, nil
}

func (s *cardService) CardTransactionSummary(ctx context.Context, userID, cardID string, period domain.DateRange) (*domain.CardTransactionSummary, error) {
	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return nil, err
	}
	if period.End.Before(period.Start) {
		return nil, fmt.Errorf("%w: start date must not be after end date", apperrors.ErrValidation)
	}
	summary, err := s.aggregator.SumCardTransactions(ctx, cardID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise card transactions: %w", err)
	}
	return summary, nil
}
