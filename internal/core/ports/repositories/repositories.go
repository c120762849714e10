package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	CardRepo         CardRepositoryWithTx
	CategoryRepo     CategoryRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	TransferRepo     TransferRepositoryFacade
	BudgetRepo       BudgetRepositoryFacade
	UserRepo         UserRepositoryFacade
	SupportRepo      SupportRepositoryFacade
}
