package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionReaderSvc defines read operations for income and expense entries
type TransactionReaderSvc interface {
	// GetTransaction retrieves one of the user's transactions.
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of transactions and the total matching count.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error)

	// RecentTransactions returns the latest transactions by date.
	RecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for income and expense entries
type TransactionWriterSvc interface {
	// CreateTransaction records an entry and applies it to the card balance atomically.
	// It returns the new card balance alongside the transaction.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, decimal.Decimal, error)

	// UpdateTransaction changes metadata only.
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes an entry and reverses its balance effect.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error

	// BulkDeleteTransactions deletes the user's transactions among ids in one unit and returns the count.
	BulkDeleteTransactions(ctx context.Context, userID string, ids []string) (int, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
