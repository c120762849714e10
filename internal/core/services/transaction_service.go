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
	"github.com/SscSPs/personal_finance_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxRecentTransactions = 50

// transactionService records income and expense entries against cards.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	cardRepo     portsrepo.CardRepositoryWithTx
	categoryRepo portsrepo.CategoryReader
	converter    portssvc.ConverterSvc
	budgets      portssvc.BudgetEvaluator
	currency     userCurrency
}

// TransactionOption is a functional option for configuring the transaction service
type TransactionOption func(*transactionService)

// WithTransactionNotifier publishes transaction events through n.
func WithTransactionNotifier(n portssvc.Notifier) TransactionOption {
	return func(s *transactionService) {
		s.Notifier = n
	}
}

// WithBudgetEvaluator checks budgets after an expense is recorded.
func WithBudgetEvaluator(e portssvc.BudgetEvaluator) TransactionOption {
	return func(s *transactionService) {
		s.budgets = e
	}
}

// WithTransactionUserCurrency sets how the user's default currency is resolved.
func WithTransactionUserCurrency(users portsrepo.UserReader, fallback string) TransactionOption {
	return func(s *transactionService) {
		s.currency = userCurrency{users: users, fallback: fallback}
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	cardRepo portsrepo.CardRepositoryWithTx,
	categoryRepo portsrepo.CategoryReader,
	converter portssvc.ConverterSvc,
	options ...TransactionOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:      txnRepo,
		cardRepo:     cardRepo,
		categoryRepo: categoryRepo,
		converter:    converter,
		currency:     userCurrency{fallback: fallbackCurrencyCode},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// usableCategory loads a category the user may record against with the given type.
func (s *transactionService) usableCategory(ctx context.Context, userID, categoryID string, txnType domain.TransactionType) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, categoryID)
		}
		return nil, err
	}
	if !category.VisibleTo(userID) {
		return nil, fmt.Errorf("%w: category belongs to another user", apperrors.ErrForbidden)
	}
	if category.Type != txnType {
		return nil, fmt.Errorf("%w: category type must match transaction type (%s)", apperrors.ErrCategoryTypeMismatch, txnType)
	}
	return category, nil
}

// usableTags returns the tags among tagIDs that are default or owned by the user. Others are skipped.
func (s *transactionService) usableTags(ctx context.Context, userID string, tagIDs []string) ([]domain.Tag, error) {
	if len(tagIDs) == 0 {
		return []domain.Tag{}, nil
	}
	tags, err := s.categoryRepo.FindTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	usable := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if t.VisibleTo(userID) {
			usable = append(usable, t)
		}
	}
	return usable, nil
}

func tagIDsOf(tags []domain.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.TagID
	}
	return ids
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, decimal.Decimal, error) {
	if !req.Type.IsValid() {
		return nil, decimal.Zero, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, decimal.Zero, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if err := requireMoneyScale("amount", req.Amount); err != nil {
		return nil, decimal.Zero, err
	}

	date := today()
	if req.Date != nil {
		date = domain.TruncateToDate(*req.Date)
	}

	category, err := s.usableCategory(ctx, userID, req.CategoryID, req.Type)
	if err != nil {
		return nil, decimal.Zero, err
	}
	tags, err := s.usableTags(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	userCcy, err := s.currency.of(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer func() { _ = s.cardRepo.Rollback(ctx, tx) }()

	locked, err := s.cardRepo.FindCardsByIDsForUpdate(ctx, tx, []string{req.CardID})
	if err != nil {
		return nil, decimal.Zero, err
	}
	card, ok := locked[req.CardID]
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, req.CardID)
	}
	if card.UserID != userID {
		return nil, decimal.Zero, fmt.Errorf("%w: you can only record transactions on your own cards", apperrors.ErrForbidden)
	}
	if req.Type == domain.Expense && !card.CanWithdraw(req.Amount) {
		return nil, decimal.Zero, fmt.Errorf("%w: card has %s %s", apperrors.ErrInsufficientFunds, card.Balance.String(), card.CurrencyCode)
	}

	now := nowUTC()
	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		UserID:               userID,
		CardID:               card.CardID,
		CategoryID:           category.CategoryID,
		Type:                 req.Type,
		Title:                req.Title,
		Description:          req.Description,
		Amount:               req.Amount,
		AmountInUserCurrency: req.Amount,
		UserCurrency:         userCcy,
		Date:                 date,
		Location:             req.Location,
		ReceiptImage:         req.ReceiptImage,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
		CardName:      card.CardName,
		CardCurrency:  card.CurrencyCode,
		CardTypeName:  card.CardTypeName,
		CategoryName:  category.Name,
		CategoryIcon:  category.Icon,
		CategoryColor: category.Color,
		Tags:          tags,
	}

	conv, err := s.converter.Convert(ctx, req.Amount, card.CurrencyCode, userCcy, date)
	switch {
	case err == nil:
		txn.AmountInUserCurrency = conv.ConvertedAmount
		rate := conv.ExchangeRate
		txn.ExchangeRateUsed = &rate
	case errors.Is(err, apperrors.ErrRateUnavailable):
		s.LogDebug(ctx, "No exchange rate, storing raw amount in user currency",
			slog.String("from", card.CurrencyCode),
			slog.String("to", userCcy))
	default:
		return nil, decimal.Zero, err
	}

	newBalance, err := accounting.ApplyDelta(card.CardID, card.Balance, accounting.CreationDelta(txn))
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn, tagIDsOf(tags)); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("card_id", card.CardID))
		return nil, decimal.Zero, err
	}
	deltas := map[string]decimal.Decimal{card.CardID: accounting.CreationDelta(txn)}
	if err := s.cardRepo.UpdateCardBalancesInTx(ctx, tx, deltas, now); err != nil {
		return nil, decimal.Zero, err
	}
	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, decimal.Zero, err
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("card_id", card.CardID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))

	s.Publish(ctx, domain.EventTransactionCreated, userID, txn)
	if txn.Type == domain.Expense {
		s.checkBudgets(ctx, userID, txn.CategoryID)
	}
	return &txn, newBalance, nil
}

// checkBudgets publishes a threshold event for every budget of the category that needs attention.
func (s *transactionService) checkBudgets(ctx context.Context, userID, categoryID string) {
	if s.budgets == nil {
		return
	}
	alerts, err := s.budgets.EvaluateCategory(ctx, userID, categoryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to evaluate budgets", slog.String("category_id", categoryID))
		return
	}
	for _, a := range alerts {
		s.Publish(ctx, domain.EventBudgetThresholdReached, userID, a)
	}
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	txns, total, err := s.txnRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, total, nil
}

func (s *transactionService) RecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > maxRecentTransactions {
		limit = 10
	}
	txns, _, err := s.ListTransactions(ctx, userID, domain.TransactionFilter{OrderBy: "-date", Limit: limit})
	return txns, err
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != txn.CategoryID {
		category, err := s.usableCategory(ctx, userID, *req.CategoryID, txn.Type)
		if err != nil {
			return nil, err
		}
		txn.CategoryID = category.CategoryID
		txn.CategoryName = category.Name
		txn.CategoryIcon = category.Icon
		txn.CategoryColor = category.Color
	}
	if req.Title != nil {
		txn.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Date != nil {
		txn.Date = domain.TruncateToDate(*req.Date)
	}
	if req.Location != nil {
		txn.Location = *req.Location
	}
	if req.ReceiptImage != nil {
		txn.ReceiptImage = *req.ReceiptImage
	}

	var tagIDs []string
	if req.TagIDs != nil {
		tags, err := s.usableTags(ctx, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		txn.Tags = tags
		tagIDs = tagIDsOf(tags)
	}
	txn.LastUpdatedAt = nowUTC()

	if err := s.txnRepo.UpdateTransaction(ctx, *txn, tagIDs); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	deleted, err := s.deleteTransactions(ctx, userID, []string{transactionID})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

func (s *transactionService) BulkDeleteTransactions(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no transaction ids given", apperrors.ErrValidation)
	}
	return s.deleteTransactions(ctx, userID, ids)
}

// deleteTransactions removes the user's transactions among ids and reverses their balance effects in one unit.
func (s *transactionService) deleteTransactions(ctx context.Context, userID string, ids []string) (int, error) {
	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = s.cardRepo.Rollback(ctx, tx) }()

	txns, err := s.txnRepo.FindTransactionsByIDsForUpdate(ctx, tx, userID, ids)
	if err != nil {
		return 0, err
	}
	if len(txns) == 0 {
		return 0, nil
	}

	deltas := accounting.ReversalDeltas(txns)
	cardIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		cardIDs = append(cardIDs, id)
	}
	cards, err := s.cardRepo.FindCardsByIDsForUpdate(ctx, tx, cardIDs)
	if err != nil {
		return 0, err
	}
	for id, delta := range deltas {
		card, ok := cards[id]
		if !ok {
			return 0, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, id)
		}
		if _, err := accounting.ApplyDelta(id, card.Balance, delta); err != nil {
			return 0, err
		}
	}

	now := nowUTC()
	if err := s.cardRepo.UpdateCardBalancesInTx(ctx, tx, deltas, now); err != nil {
		return 0, err
	}
	deleted, err := s.txnRepo.DeleteTransactionsInTx(ctx, tx, transactionIDsOf(txns))
	if err != nil {
		return 0, err
	}
	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return 0, err
	}

	s.LogInfo(ctx, "Transactions deleted", slog.String("user_id", userID), slog.Int("count", deleted))
	for _, t := range txns {
		s.Publish(ctx, domain.EventTransactionDeleted, userID, t)
	}
	return deleted, nil
}

func transactionIDsOf(txns []domain.Transaction) []string {
	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.TransactionID
	}
	return ids
}
