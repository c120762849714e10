package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/core/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/platform/config"
	"github.com/SscSPs/personal_finance_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	notifier *MockNotifier
	service  portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.notifier = new(MockNotifier)
	suite.service = services.NewAuthService(suite.userRepo, suite.notifier,
		services.WithVerificationTiming(5*time.Minute, 2*time.Minute),
		services.WithDefaultCurrency("uzs"))
}

func notFound() error {
	return apperrors.NewNotFoundError("user not found")
}

func (suite *AuthServiceTestSuite) TestSignup_NewUserGetsCode() {
	ctx := context.Background()
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(nil, notFound()).Once()
	suite.userRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "ali@example.com" && u.AuthStatus == domain.AuthStatusNew && u.DefaultCurrency == "UZS"
	})).Return(nil).Once()
	suite.userRepo.On("SaveVerificationCode", mock.Anything, mock.MatchedBy(func(vc domain.VerificationCode) bool {
		return len(vc.Code) == 4 && vc.ExpiresAt.Sub(vc.CreatedAt) == 5*time.Minute
	})).Return(nil).Once()
	suite.notifier.On("SendVerificationCode", mock.Anything, "ali@example.com", mock.AnythingOfType("string")).Return(nil).Once()

	err := suite.service.Signup(ctx, "  Ali@Example.com ")

	suite.Require().NoError(err)
	suite.userRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestSignup_UnfinishedUserReused() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusNew}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()
	suite.userRepo.On("SaveVerificationCode", mock.Anything, mock.Anything).Return(nil).Once()
	suite.notifier.On("SendVerificationCode", mock.Anything, "ali@example.com", mock.Anything).Return(nil).Once()

	err := suite.service.Signup(context.Background(), "ali@example.com")

	suite.Require().NoError(err)
	suite.userRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestSignup_CompletedUserIsDuplicate() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusDone}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()

	err := suite.service.Signup(context.Background(), "ali@example.com")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AuthServiceTestSuite) TestVerifyCode() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusNew}
	now := time.Now().UTC()
	code := &domain.VerificationCode{CodeID: uuid.NewString(), UserID: user.UserID, Code: "1234", ExpiresAt: now.Add(time.Minute), CreatedAt: now}

	tests := []struct {
		name    string
		code    *domain.VerificationCode
		input   string
		wantErr error
	}{
		{"valid code", code, "1234", nil},
		{"wrong code", code, "4321", apperrors.ErrValidation},
		{"expired code", &domain.VerificationCode{CodeID: code.CodeID, Code: "1234", ExpiresAt: now.Add(-time.Second)}, "1234", apperrors.ErrValidation},
		{"already confirmed", &domain.VerificationCode{CodeID: code.CodeID, Code: "1234", ExpiresAt: now.Add(time.Minute), IsConfirmed: true}, "1234", apperrors.ErrValidation},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			u := *user
			suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(&u, nil).Once()
			suite.userRepo.On("FindLatestVerificationCode", mock.Anything, user.UserID).Return(tt.code, nil).Once()
			if tt.wantErr == nil {
				suite.userRepo.On("ConfirmVerificationCode", mock.Anything, code.CodeID).Return(nil).Once()
				suite.userRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
					return u.AuthStatus == domain.AuthStatusCodeVerified
				})).Return(nil).Once()
			}

			err := suite.service.VerifyCode(context.Background(), "ali@example.com", tt.input)

			if tt.wantErr != nil {
				suite.ErrorIs(err, tt.wantErr)
				suite.userRepo.AssertNotCalled(suite.T(), "ConfirmVerificationCode", mock.Anything, mock.Anything)
				return
			}
			suite.Require().NoError(err)
			suite.userRepo.AssertExpectations(suite.T())
		})
	}
}

func (suite *AuthServiceTestSuite) TestResendCode_TooSoon() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusNew}
	recent := &domain.VerificationCode{CodeID: uuid.NewString(), CreatedAt: time.Now().UTC().Add(-30 * time.Second)}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()
	suite.userRepo.On("FindLatestVerificationCode", mock.Anything, user.UserID).Return(recent, nil).Once()

	err := suite.service.ResendCode(context.Background(), "ali@example.com")

	suite.ErrorIs(err, apperrors.ErrTooManyRequests)
	suite.notifier.AssertNotCalled(suite.T(), "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestResendCode_AfterInterval() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusNew}
	old := &domain.VerificationCode{CodeID: uuid.NewString(), CreatedAt: time.Now().UTC().Add(-3 * time.Minute)}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()
	suite.userRepo.On("FindLatestVerificationCode", mock.Anything, user.UserID).Return(old, nil).Once()
	suite.userRepo.On("SaveVerificationCode", mock.Anything, mock.Anything).Return(nil).Once()
	suite.notifier.On("SendVerificationCode", mock.Anything, "ali@example.com", mock.Anything).Return(nil).Once()

	err := suite.service.ResendCode(context.Background(), "ali@example.com")

	suite.Require().NoError(err)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestCompleteRegistration() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusCodeVerified}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()
	suite.userRepo.On("FindUserByUsername", mock.Anything, "ali").Return(nil, notFound()).Once()
	suite.userRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.AuthStatus == domain.AuthStatusDone && u.Username == "ali" && utils.CheckPasswordHash("s3cretpass", u.PasswordHash)
	})).Return(nil).Once()

	done, err := suite.service.CompleteRegistration(context.Background(), dto.CompleteRegistrationRequest{
		Email:           "ali@example.com",
		Username:        "ali",
		Password:        "s3cretpass",
		ConfirmPassword: "s3cretpass",
		FirstName:       "Ali",
	})

	suite.Require().NoError(err)
	suite.Equal("Ali", done.FirstName)
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestCompleteRegistration_RequiresVerifiedEmail() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusNew}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()

	_, err := suite.service.CompleteRegistration(context.Background(), dto.CompleteRegistrationRequest{
		Email: "ali@example.com", Username: "ali", Password: "s3cretpass", ConfirmPassword: "s3cretpass",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestCompleteRegistration_UsernameTaken() {
	user := &domain.User{UserID: uuid.NewString(), Email: "ali@example.com", AuthStatus: domain.AuthStatusCodeVerified}
	other := &domain.User{UserID: uuid.NewString(), Username: "ali"}
	suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()
	suite.userRepo.On("FindUserByUsername", mock.Anything, "ali").Return(other, nil).Once()

	_, err := suite.service.CompleteRegistration(context.Background(), dto.CompleteRegistrationRequest{
		Email: "ali@example.com", Username: "ali", Password: "s3cretpass", ConfirmPassword: "s3cretpass",
	})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	hash, err := utils.HashPassword("s3cretpass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "ali", Email: "ali@example.com", PasswordHash: hash, AuthStatus: domain.AuthStatusDone}

	suite.Run("by email", func() {
		suite.SetupTest()
		suite.userRepo.On("FindUserByUsername", mock.Anything, "ali@example.com").Return(nil, notFound()).Once()
		suite.userRepo.On("FindUserByEmail", mock.Anything, "ali@example.com").Return(user, nil).Once()

		got, err := suite.service.Login(context.Background(), "ali@example.com", "s3cretpass")

		suite.Require().NoError(err)
		suite.Equal(user.UserID, got.UserID)
	})

	suite.Run("wrong password", func() {
		suite.SetupTest()
		suite.userRepo.On("FindUserByUsername", mock.Anything, "ali").Return(user, nil).Once()

		_, err := suite.service.Login(context.Background(), "ali", "nope-nope")

		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	})

	suite.Run("unknown user", func() {
		suite.SetupTest()
		suite.userRepo.On("FindUserByUsername", mock.Anything, "ghost").Return(nil, notFound()).Once()
		suite.userRepo.On("FindUserByEmail", mock.Anything, "ghost").Return(nil, notFound()).Once()

		_, err := suite.service.Login(context.Background(), "ghost", "whatever1")

		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	})
}

func (suite *AuthServiceTestSuite) TestLoginWithGoogle_CreatesUser() {
	suite.userRepo.On("FindUserByProviderDetails", mock.Anything, domain.ProviderGoogle, "g-123").Return(nil, notFound()).Once()
	suite.userRepo.On("FindUserByEmail", mock.Anything, "new.person@gmail.com").Return(nil, notFound()).Once()
	suite.userRepo.On("FindUserByUsername", mock.Anything, "new.person").Return(nil, notFound()).Once()
	suite.userRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.AuthProvider == domain.ProviderGoogle && u.AuthStatus == domain.AuthStatusDone && u.FirstName == "New" && u.LastName == "Person"
	})).Return(nil).Once()

	user, err := suite.service.LoginWithGoogle(context.Background(), "New Person", "New.Person@gmail.com", "g-123", true)

	suite.Require().NoError(err)
	suite.Equal("new.person", user.Username)
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLoginWithGoogle_UnverifiedEmail() {
	suite.userRepo.On("FindUserByProviderDetails", mock.Anything, domain.ProviderGoogle, "g-123").Return(nil, notFound()).Once()

	_, err := suite.service.LoginWithGoogle(context.Background(), "X", "x@gmail.com", "g-123", false)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

type TokenServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewTokenService(&config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "personal-finance-app",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}, suite.userRepo)
}

func (suite *TokenServiceTestSuite) TestIssueTokenPair_StoresHash() {
	user := &domain.User{UserID: uuid.NewString()}
	var stored string
	suite.userRepo.On("UpdateRefreshToken", mock.Anything, user.UserID, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil).Once()

	pair, err := suite.service.IssueTokenPair(context.Background(), user)

	suite.Require().NoError(err)
	suite.NotEmpty(pair.AccessToken)
	suite.Len(pair.RefreshToken, 64)
	suite.Equal(utils.HashRefreshToken(pair.RefreshToken), stored)
	suite.NotEqual(pair.RefreshToken, stored)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Expired() {
	past := time.Now().Add(-time.Minute)
	user := &domain.User{UserID: uuid.NewString(), RefreshTokenExpiryTime: &past}
	suite.userRepo.On("FindUserByRefreshTokenHash", mock.Anything, utils.HashRefreshToken("raw")).Return(user, nil).Once()

	_, err := suite.service.ValidateRefreshToken(context.Background(), "raw")

	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Unknown() {
	suite.userRepo.On("FindUserByRefreshTokenHash", mock.Anything, utils.HashRefreshToken("raw")).Return(nil, notFound()).Once()

	_, err := suite.service.ValidateRefreshToken(context.Background(), "raw")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestRevokeRefreshToken_ClearsHash() {
	future := time.Now().Add(time.Hour)
	user := &domain.User{UserID: uuid.NewString(), RefreshTokenExpiryTime: &future}
	suite.userRepo.On("FindUserByRefreshTokenHash", mock.Anything, utils.HashRefreshToken("raw")).Return(user, nil).Once()
	suite.userRepo.On("UpdateRefreshToken", mock.Anything, user.UserID, "", (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.RevokeRefreshToken(context.Background(), "raw")

	suite.Require().NoError(err)
	suite.userRepo.AssertExpectations(suite.T())
}

func TestTokenService(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
