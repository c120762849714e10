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
	"github.com/SscSPs/personal_finance_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultRatePageSize = 20
	maxRatePageSize     = 100
)

// exchangeRateService is the currency ledger: rate storage plus conversion.
type exchangeRateService struct {
	BaseService
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencyReaderSvc
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyService portssvc.CurrencyReaderSvc) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf time.Time) (*domain.Conversion, error) {
	fromCode, toCode = strings.ToUpper(fromCode), strings.ToUpper(toCode)
	conv := &domain.Conversion{
		Amount: amount,
		From:   fromCode,
		To:     toCode,
		Date:   domain.TruncateToDate(asOf),
	}
	if fromCode == toCode {
		conv.ConvertedAmount = amount
		conv.ExchangeRate = decimal.NewFromInt(1)
		return conv, nil
	}

	rate, found, err := s.LatestRate(ctx, fromCode, toCode, asOf)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no rate from %s to %s on or before %s", apperrors.ErrRateUnavailable, fromCode, toCode, conv.Date.Format(time.DateOnly))
	}
	conv.ExchangeRate = rate
	conv.ConvertedAmount = amount.Mul(rate).Round(domain.MoneyScale)
	return conv, nil
}

func (s *exchangeRateService) LatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, bool, error) {
	fromCode, toCode = strings.ToUpper(fromCode), strings.ToUpper(toCode)
	if fromCode == toCode {
		return decimal.NewFromInt(1), true, nil
	}
	rate, err := s.rateRepo.FindLatestRate(ctx, fromCode, toCode, domain.TruncateToDate(asOf))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, false, nil
		}
		s.LogError(ctx, err, "Failed to look up exchange rate",
			slog.String("from", fromCode),
			slog.String("to", toCode))
		return decimal.Zero, false, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	return rate.Rate, true, nil
}

func (s *exchangeRateService) LatestRates(ctx context.Context, baseCode string, asOf time.Time) (map[string]decimal.Decimal, error) {
	baseCode = strings.ToUpper(baseCode)
	if _, err := s.currencyService.GetCurrencyByCode(ctx, baseCode); err != nil {
		return nil, err
	}
	active, err := s.currencyService.ListCurrencies(ctx, false)
	if err != nil {
		return nil, err
	}
	rates, err := s.rateRepo.FindLatestRatesFrom(ctx, baseCode, domain.TruncateToDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rates: %w", err)
	}

	byTarget := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		byTarget[r.ToCurrencyCode] = r.Rate
	}
	result := make(map[string]decimal.Decimal, len(active))
	for _, c := range active {
		if c.CurrencyCode == baseCode {
			result[c.CurrencyCode] = decimal.NewFromInt(1)
			continue
		}
		if r, ok := byTarget[c.CurrencyCode]; ok {
			result[c.CurrencyCode] = r
		}
	}
	return result, nil
}

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error) {
	fromCode, toCode := strings.ToUpper(req.FromCurrencyCode), strings.ToUpper(req.ToCurrencyCode)
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if fromCode == toCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	for _, code := range []string{fromCode, toCode} {
		if _, err := s.currencyService.GetCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	now := nowUTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             req.Rate,
		DateEffective:    domain.TruncateToDate(req.DateEffective),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.rateRepo.UpsertExchangeRate(ctx, rate)
	if err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", fromCode),
			slog.String("to", toCode))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}
	s.LogInfo(ctx, "Exchange rate saved",
		slog.String("exchange_rate_id", saved.ExchangeRateID),
		slog.String("from", fromCode),
		slog.String("to", toCode))
	return saved, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) ([]domain.ExchangeRate, *string, error) {
	limit := pagination.NormalizeLimit(params.Limit, defaultRatePageSize, maxRatePageSize)
	filter := domain.ExchangeRateFilter{
		FromCurrencyCode: strings.ToUpper(params.From),
		ToCurrencyCode:   strings.ToUpper(params.To),
		Date:             params.Date,
		Limit:            limit + 1,
	}
	if params.NextToken != nil && *params.NextToken != "" {
		afterDate, afterCreated, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.AfterDate = &afterDate
		filter.AfterCreatedAt = &afterCreated
	}

	rates, err := s.rateRepo.ListExchangeRates(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}

	var nextToken *string
	if len(rates) > limit {
		rates = rates[:limit]
		last := rates[limit-1]
		token := pagination.EncodeToken(last.DateEffective, last.CreatedAt)
		nextToken = &token
	}
	if rates == nil {
		rates = []domain.ExchangeRate{}
	}
	return rates, nextToken, nil
}
