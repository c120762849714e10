package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CardReader defines read operations for cards
type CardReader interface {
	// FindCardByID retrieves a card with its card type name.
	FindCardByID(ctx context.Context, cardID string) (*domain.Card, error)

	// ListCards lists a user's cards, default first then newest first.
	ListCards(ctx context.Context, userID string, filter domain.CardFilter) ([]domain.Card, error)

	// CountActiveCards counts a user's cards in the active status.
	CountActiveCards(ctx context.Context, userID string) (int, error)

	// CountCardTransactions counts transactions and transfers recorded against a card.
	CountCardTransactions(ctx context.Context, cardID string) (int, error)

	// ListCardTypes lists active card types by name.
	ListCardTypes(ctx context.Context) ([]domain.CardType, error)

	// FindCardTypeByID retrieves a card type.
	FindCardTypeByID(ctx context.Context, cardTypeID string) (*domain.CardType, error)
}

// CardWriter defines write operations for cards
type CardWriter interface {
	// SaveCardInTx inserts a card inside tx.
	SaveCardInTx(ctx context.Context, tx pgx.Tx, card domain.Card) error

	// UpdateCard updates descriptive fields only. Balance, status and default flag are untouched.
	UpdateCard(ctx context.Context, card domain.Card) error

	// UpdateCardStatus changes status; inactive and blocked cards lose the default flag.
	UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, now time.Time) error

	// SetDefaultCardInTx marks cardID as the user's only default card with one statement.
	SetDefaultCardInTx(ctx context.Context, tx pgx.Tx, userID, cardID string, now time.Time) error

	// DeleteCard removes a card.
	DeleteCard(ctx context.Context, cardID string) error
}

// CardBalanceWriter mutates balances under row locks. All methods must run inside tx.
type CardBalanceWriter interface {
	// FindCardsByIDsForUpdate loads and locks the given cards.
	FindCardsByIDsForUpdate(ctx context.Context, tx pgx.Tx, cardIDs []string) (map[string]domain.Card, error)

	// UpdateCardBalancesInTx adds each delta to its card's balance.
	UpdateCardBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error

	// CountCardsForUpdateInTx counts the user's cards while holding a lock on the user row.
	CountCardsForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (int, error)

	// SetCardBalanceInTx overwrites a card's balance, used for manual corrections.
	SetCardBalanceInTx(ctx context.Context, tx pgx.Tx, cardID string, balance decimal.Decimal, now time.Time) error
}

// CardRepositoryFacade combines all card repository interfaces
type CardRepositoryFacade interface {
	CardReader
	CardWriter
	CardBalanceWriter
}

// CardRepositoryWithTx extends CardRepositoryFacade with transaction capabilities
type CardRepositoryWithTx interface {
	CardRepositoryFacade
	TransactionManager
}
