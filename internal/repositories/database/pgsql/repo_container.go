package pgsql

import (
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		CardRepo:         newPgxCardRepository(dbPool),
		CategoryRepo:     newPgxCategoryRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		TransferRepo:     newPgxTransferRepository(dbPool),
		BudgetRepo:       newPgxBudgetRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		SupportRepo:      newPgxSupportRepository(dbPool),
	}
}
