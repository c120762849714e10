package services

import (
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The notifier and renderer may be nil; events are then dropped and statement export fails.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	notifier portssvc.Notifier,
	renderer portssvc.StatementRenderer,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	defaultCurrency := cfg.DefaultCurrency
	if defaultCurrency == "" {
		defaultCurrency = fallbackCurrencyCode
	}

	// Currency ledger first since every money-moving service converts through it
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)

	container.Card = NewCardService(
		repos.CardRepo,
		WithCardCurrencyService(container.Currency),
		WithCardConverter(container.ExchangeRate),
		WithCardAggregator(repos.TransactionRepo),
		WithCardUserCurrency(repos.UserRepo, defaultCurrency),
	)
	container.Category = NewCategoryService(repos.CategoryRepo)

	container.Budget = NewBudgetService(
		repos.BudgetRepo,
		repos.CategoryRepo,
		repos.TransactionRepo,
		container.ExchangeRate,
		container.Currency,
		WithBudgetUserCurrency(repos.UserRepo, defaultCurrency),
	)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.CardRepo,
		repos.CategoryRepo,
		container.ExchangeRate,
		WithTransactionNotifier(notifier),
		WithBudgetEvaluator(container.Budget),
		WithTransactionUserCurrency(repos.UserRepo, defaultCurrency),
	)

	container.Transfer = NewTransferService(
		repos.TransferRepo,
		repos.CardRepo,
		container.ExchangeRate,
		container.Currency,
		notifier,
	)

	container.Reporting = NewReportingService(
		repos.TransactionRepo,
		repos.UserRepo,
		WithStatementRenderer(renderer),
		WithReportingFallbackCurrency(defaultCurrency),
	)

	container.Auth = NewAuthService(
		repos.UserRepo,
		notifier,
		WithVerificationTiming(cfg.VerificationCodeTTL, cfg.VerificationResendInterval),
		WithDefaultCurrency(defaultCurrency),
	)
	container.User = NewUserService(
		repos.UserRepo,
		repos.CardRepo,
		repos.TransactionRepo,
		repos.BudgetRepo,
		container.Card,
		container.Currency,
	)
	container.Support = NewSupportService(repos.SupportRepo, repos.UserRepo)

	container.TokenService = NewTokenService(cfg, repos.UserRepo)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
