package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for income and expense entries
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with card, category and tag details.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of a user's transactions and the total matching count.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error)

	// CountUserTransactions counts all of a user's transactions.
	CountUserTransactions(ctx context.Context, userID string) (int, error)
}

// TransactionWriter defines write operations. The InTx methods must run inside tx.
type TransactionWriter interface {
	// SaveTransactionInTx inserts a transaction and links its tags.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, tagIDs []string) error

	// UpdateTransaction updates metadata. Tags are replaced when tagIDs is non-nil.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, tagIDs []string) error

	// FindTransactionsByIDsForUpdate loads and locks the user's transactions among ids.
	FindTransactionsByIDsForUpdate(ctx context.Context, tx pgx.Tx, userID string, ids []string) ([]domain.Transaction, error)

	// DeleteTransactionsInTx deletes the given transactions and their tag links.
	DeleteTransactionsInTx(ctx context.Context, tx pgx.Tx, ids []string) (int, error)
}

// TransactionAggregator groups and sums transactions. Amounts are in the user's currency unless noted.
type TransactionAggregator interface {
	// SumByCategory sums per category and type, ordered by total descending.
	SumByCategory(ctx context.Context, userID string, period domain.DateRange) ([]domain.CategoryTotal, error)

	// SumByDate sums income and expense per date bucket, oldest first.
	SumByDate(ctx context.Context, userID string, period domain.DateRange, grouping domain.Grouping) ([]domain.DateTotal, error)

	// SumByCard sums raw amounts per card in each card's currency.
	SumByCard(ctx context.Context, userID string, period domain.DateRange) ([]domain.CardTotal, error)

	// SumCardTransactions summarises one card's raw amounts.
	SumCardTransactions(ctx context.Context, cardID string, period domain.DateRange) (*domain.CardTransactionSummary, error)

	// SumExpensesByCurrency sums raw expense amounts in a category grouped by card currency.
	SumExpensesByCurrency(ctx context.Context, userID, categoryID string, period domain.DateRange) ([]domain.CurrencyAmount, error)

	// SumMonthlyCategoryExpenses sums expenses in a category per calendar month since the given date.
	SumMonthlyCategoryExpenses(ctx context.Context, userID, categoryID string, since time.Time) ([]domain.DateTotal, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionAggregator
}
