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
	"github.com/SscSPs/personal_finance_app/internal/utils"
)

// userService manages profiles of registered users.
type userService struct {
	BaseService
	userRepo        portsrepo.UserRepositoryFacade
	cardRepo        portsrepo.CardReader
	txnRepo         portsrepo.TransactionReader
	budgetRepo      portsrepo.BudgetReader
	cardService     portssvc.CardAggregateSvc
	currencyService portssvc.CurrencyReaderSvc
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	cardRepo portsrepo.CardReader,
	txnRepo portsrepo.TransactionReader,
	budgetRepo portsrepo.BudgetReader,
	cardService portssvc.CardAggregateSvc,
	currencyService portssvc.CurrencyReaderSvc,
) portssvc.UserSvcFacade {
	return &userService{
		userRepo:        userRepo,
		cardRepo:        cardRepo,
		txnRepo:         txnRepo,
		budgetRepo:      budgetRepo,
		cardService:     cardService,
		currencyService: currencyService,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) UserStatistics(ctx context.Context, userID string) (*domain.UserStatistics, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeCards, err := s.cardRepo.CountActiveCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.txnRepo.CountUserTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeBudgets, err := s.budgetRepo.CountActiveBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.cardService.TotalBalance(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	formatted := utils.FormatWithPrecision(total.TotalBalance, 2)
	if currency, err := s.currencyService.GetCurrencyByCode(ctx, total.Currency); err == nil {
		formatted = utils.FormatWithCurrencyPrecision(total.TotalBalance, *currency)
	}

	return &domain.UserStatistics{
		ActiveCards:       activeCards,
		TotalTransactions: transactions,
		ActiveBudgets:     activeBudgets,
		TotalBalance:      formatted,
		Currency:          total.Currency,
		MemberSince:       user.CreatedAt,
	}, nil
}

func (s *userService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	return availability(err)
}

func (s *userService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	return availability(err)
}

func availability(lookupErr error) (bool, error) {
	switch {
	case lookupErr == nil:
		return false, nil
	case errors.Is(lookupErr, apperrors.ErrNotFound):
		return true, nil
	default:
		return false, lookupErr
	}
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := usernameFree(ctx, s.userRepo, username, userID); err != nil {
			return nil, err
		}
		user.Username = username
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.DefaultCurrency != nil {
		currency, err := s.currencyService.GetActiveCurrency(ctx, *req.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		user.DefaultCurrency = currency.CurrencyCode
	}
	user.LastUpdatedAt = nowUTC()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update profile", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: old password is incorrect", apperrors.ErrValidation)
	}
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.LastUpdatedAt = nowUTC()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return err
	}
	s.LogInfo(ctx, "Password changed", slog.String("user_id", userID))
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return fmt.Errorf("%w: invalid password", apperrors.ErrUnauthorized)
	}
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.LogInfo(ctx, "Account deleted", slog.String("user_id", userID))
	return nil
}
