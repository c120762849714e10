package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransferReader defines read operations for card transfers
type TransferReader interface {
	// FindTransferByID retrieves a transfer with both card names and currencies.
	FindTransferByID(ctx context.Context, transferID string) (*domain.CardTransfer, error)

	// ListTransfers lists a user's transfers newest first, optionally touching one card, at most limit rows when limit > 0.
	ListTransfers(ctx context.Context, userID string, cardID *string, limit int) ([]domain.CardTransfer, error)

	// CountTransfers counts a user's transfers.
	CountTransfers(ctx context.Context, userID string) (int, error)

	// MonthlyTransferStats counts and sums transfers per month since the given date, newest month first.
	MonthlyTransferStats(ctx context.Context, userID string, since time.Time) ([]domain.MonthlyTransferStat, error)
}

// TransferWriter defines write operations for card transfers
type TransferWriter interface {
	// SaveTransferInTx inserts the transfer record inside tx.
	SaveTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CardTransfer) error
}

// TransferRepositoryFacade combines all transfer repository interfaces
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}
