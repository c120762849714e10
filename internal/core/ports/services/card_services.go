package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
)

// CardReaderSvc defines read operations for a user's cards
type CardReaderSvc interface {
	ListCards(ctx context.Context, userID string, filter domain.CardFilter) ([]domain.Card, error)

	// GetCard returns the card with its transaction count. Other users' cards are not found.
	GetCard(ctx context.Context, userID, cardID string) (*domain.CardDetail, error)

	ListCardTypes(ctx context.Context) ([]domain.CardType, error)
}

// CardWriterSvc defines write operations for a user's cards
type CardWriterSvc interface {
	// CreateCard opens a card. The user's first card, or one created with isDefault, becomes the default.
	CreateCard(ctx context.Context, userID string, req dto.CreateCardRequest) (*domain.Card, error)

	UpdateCard(ctx context.Context, userID, cardID string, req dto.UpdateCardRequest) (*domain.Card, error)

	// SetDefaultCard makes an active card the user's only default.
	SetDefaultCard(ctx context.Context, userID, cardID string) (*domain.Card, error)

	// ChangeCardStatus moves a card to a new status. Leaving active clears the default flag.
	ChangeCardStatus(ctx context.Context, userID, cardID string, status domain.CardStatus) (*domain.Card, error)

	// DeleteCard removes a card that has no transactions and is not the last active card.
	DeleteCard(ctx context.Context, userID, cardID string) error

	// UpdateBalance overwrites a balance as a manual correction.
	UpdateBalance(ctx context.Context, userID, cardID string, req dto.UpdateBalanceRequest) (*domain.BalanceAdjustment, error)
}

// CardAggregateSvc defines summaries across a user's cards
type CardAggregateSvc interface {
	// TotalBalance sums active card balances in currency, or in the user's default currency when empty.
	// Balances without a rate are added unconverted.
	TotalBalance(ctx context.Context, userID, currency string) (*domain.TotalBalance, error)

	CardStatistics(ctx context.Context, userID string) (*domain.CardStatistics, error)

	CardTransactionSummary(ctx context.Context, userID, cardID string, period domain.DateRange) (*domain.CardTransactionSummary, error)
}

// CardSvcFacade combines all card-related service interfaces
type CardSvcFacade interface {
	CardReaderSvc
	CardWriterSvc
	CardAggregateSvc
}
