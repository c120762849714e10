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
)

const defaultCurrencyPrecision = 2

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates the currency catalogue service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	precision := defaultCurrencyPrecision
	if req.Precision != nil {
		precision = *req.Precision
	}
	now := nowUTC()

	currency := domain.Currency{
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    precision,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", currency.CurrencyCode))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", currency.CurrencyCode))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) GetActiveCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s does not exist", apperrors.ErrValidation, currencyCode)
		}
		return nil, err
	}
	if !currency.IsActive {
		return nil, fmt.Errorf("%w: currency %s is not active", apperrors.ErrValidation, currencyCode)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context, includeInactive bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *currencyService) UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest) (*domain.Currency, error) {
	currency, err := s.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	if req.Symbol != nil {
		currency.Symbol = *req.Symbol
	}
	if req.Name != nil {
		currency.Name = *req.Name
	}
	if req.Precision != nil {
		currency.Precision = *req.Precision
	}
	if req.IsActive != nil {
		currency.IsActive = *req.IsActive
	}
	currency.LastUpdatedAt = nowUTC()

	if err := s.currencyRepo.UpdateCurrency(ctx, *currency); err != nil {
		s.LogError(ctx, err, "Failed to update currency", slog.String("currency_code", currency.CurrencyCode))
		return nil, fmt.Errorf("failed to update currency in service: %w", err)
	}
	return currency, nil
}
