package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	recentTransfersCount = 20
	transferStatsMonths  = 6
)

// transferService is the transfer engine.
type transferService struct {
	BaseService
	transferRepo    portsrepo.TransferRepositoryFacade
	cardRepo        portsrepo.CardRepositoryWithTx
	converter       portssvc.ConverterSvc
	currencyService portssvc.CurrencyReaderSvc
}

// NewTransferService creates a new transfer service.
func NewTransferService(
	transferRepo portsrepo.TransferRepositoryFacade,
	cardRepo portsrepo.CardRepositoryWithTx,
	converter portssvc.ConverterSvc,
	currencyService portssvc.CurrencyReaderSvc,
	notifier portssvc.Notifier,
) portssvc.TransferSvcFacade {
	return &transferService{
		BaseService:     BaseService{Notifier: notifier},
		transferRepo:    transferRepo,
		cardRepo:        cardRepo,
		converter:       converter,
		currencyService: currencyService,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// validateTransferRequest applies the checks that need no card data.
func validateTransferRequest(req dto.CreateTransferRequest) error {
	if req.FromCardID == req.ToCardID {
		return apperrors.ErrSameCard
	}
	if req.Amount.LessThan(domain.MinimumTransferAmount) {
		return fmt.Errorf("%w: minimum amount to transfer is %s", apperrors.ErrBelowMinimum, domain.MinimumTransferAmount.String())
	}
	if err := requireMoneyScale("amount", req.Amount); err != nil {
		return err
	}
	return nil
}

// pairFor checks ownership and funds and converts the amount into the destination currency.
func (s *transferService) pairFor(ctx context.Context, userID string, from, to domain.Card, amount decimal.Decimal) (*domain.Conversion, error) {
	if from.UserID != userID || to.UserID != userID {
		return nil, fmt.Errorf("%w: both cards must belong to you", apperrors.ErrInvalidCard)
	}
	if !from.CanWithdraw(amount) {
		return nil, fmt.Errorf("%w: card has %s %s", apperrors.ErrInsufficientFunds, from.Balance.String(), from.CurrencyCode)
	}
	return s.converter.Convert(ctx, amount, from.CurrencyCode, to.CurrencyCode, today())
}

func (s *transferService) CreateTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*domain.CardTransfer, error) {
	if err := validateTransferRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.cardRepo.Rollback(ctx, tx) }()

	cards, err := s.cardRepo.FindCardsByIDsForUpdate(ctx, tx, []string{req.FromCardID, req.ToCardID})
	if err != nil {
		return nil, err
	}
	from, okFrom := cards[req.FromCardID]
	to, okTo := cards[req.ToCardID]
	if !okFrom || !okTo {
		return nil, fmt.Errorf("%w: card does not exist", apperrors.ErrInvalidCard)
	}

	conv, err := s.pairFor(ctx, userID, from, to, req.Amount)
	if err != nil {
		s.LogError(ctx, err, "Transfer rejected",
			slog.String("from_card_id", req.FromCardID),
			slog.String("to_card_id", req.ToCardID))
		return nil, err
	}

	transfer := domain.CardTransfer{
		TransferID:       uuid.NewString(),
		UserID:           userID,
		FromCardID:       from.CardID,
		ToCardID:         to.CardID,
		Amount:           req.Amount,
		ExchangeRate:     conv.ExchangeRate,
		ConvertedAmount:  conv.ConvertedAmount,
		Description:      strings.TrimSpace(req.Description),
		CreatedAt:        nowUTC(),
		FromCardName:     from.CardName,
		ToCardName:       to.CardName,
		FromCurrencyCode: from.CurrencyCode,
		ToCurrencyCode:   to.CurrencyCode,
	}

	deltas := accounting.TransferDeltas(transfer)
	if _, err := accounting.ApplyDelta(from.CardID, from.Balance, deltas[from.CardID]); err != nil {
		return nil, err
	}
	if err := s.cardRepo.UpdateCardBalancesInTx(ctx, tx, deltas, transfer.CreatedAt); err != nil {
		return nil, err
	}
	if err := s.transferRepo.SaveTransferInTx(ctx, tx, transfer); err != nil {
		s.LogError(ctx, err, "Failed to save transfer", slog.String("transfer_id", transfer.TransferID))
		return nil, err
	}
	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("amount", transfer.Amount.String()),
		slog.String("converted_amount", transfer.ConvertedAmount.String()),
		slog.String("exchange_rate", transfer.ExchangeRate.String()))
	s.Publish(ctx, domain.EventTransferCompleted, userID, transfer)
	return &transfer, nil
}

func (s *transferService) PreviewTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*domain.TransferPreview, error) {
	if err := validateTransferRequest(req); err != nil {
		return nil, err
	}
	from, err := s.cardForPreview(ctx, req.FromCardID)
	if err != nil {
		return nil, err
	}
	to, err := s.cardForPreview(ctx, req.ToCardID)
	if err != nil {
		return nil, err
	}

	conv, err := s.pairFor(ctx, userID, *from, *to, req.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.TransferPreview{
		Amount:         req.Amount,
		Converted:      conv.ConvertedAmount,
		ExchangeRate:   conv.ExchangeRate,
		NewFromBalance: from.Balance.Sub(req.Amount),
		NewToBalance:   to.Balance.Add(conv.ConvertedAmount),
	}, nil
}

func (s *transferService) cardForPreview(ctx context.Context, cardID string) (*domain.Card, error) {
	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: card does not exist", apperrors.ErrInvalidCard)
		}
		return nil, err
	}
	return card, nil
}

func (s *transferService) ListTransfers(ctx context.Context, userID string, cardID *string) ([]domain.CardTransfer, error) {
	transfers, err := s.transferRepo.ListTransfers(ctx, userID, cardID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	if transfers == nil {
		return []domain.CardTransfer{}, nil
	}
	return transfers, nil
}

func (s *transferService) GetTransfer(ctx context.Context, userID, transferID string) (*domain.CardTransfer, error) {
	transfer, err := s.transferRepo.FindTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.UserID != userID {
		return nil, fmt.Errorf("%w: transfer %s", apperrors.ErrNotFound, transferID)
	}
	return transfer, nil
}

func (s *transferService) TransferHistory(ctx context.Context, userID string) (*domain.TransferHistory, error) {
	recent, err := s.transferRepo.ListTransfers(ctx, userID, nil, recentTransfersCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transfers: %w", err)
	}
	now := today()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(transferStatsMonths - 1), 0)
	stats, err := s.transferRepo.MonthlyTransferStats(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly transfer stats: %w", err)
	}
	count, err := s.transferRepo.CountTransfers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transfers: %w", err)
	}

	if recent == nil {
		recent = []domain.CardTransfer{}
	}
	if stats == nil {
		stats = []domain.MonthlyTransferStat{}
	}
	return &domain.TransferHistory{Recent: recent, MonthlyStats: stats, TotalCount: count}, nil
}

func (s *transferService) Rate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	for _, code := range []string{fromCode, toCode} {
		if _, err := s.currencyService.GetCurrencyByCode(ctx, code); err != nil {
			return decimal.Zero, err
		}
	}
	rate, found, err := s.converter.LatestRate(ctx, fromCode, toCode, today())
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, fmt.Errorf("%w: no rate from %s to %s", apperrors.ErrRateUnavailable, strings.ToUpper(fromCode), strings.ToUpper(toCode))
	}
	return rate, nil
}
