package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SupportServiceTestSuite struct {
	suite.Suite
	supportRepo *MockSupportRepository
	userRepo    *MockUserRepository
	service     portssvc.SupportSvcFacade
	staff       *domain.User
	customer    *domain.User
}

func (suite *SupportServiceTestSuite) SetupTest() {
	suite.supportRepo = new(MockSupportRepository)
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewSupportService(suite.supportRepo, suite.userRepo)
	suite.staff = &domain.User{UserID: uuid.NewString(), Username: "helpdesk", IsStaff: true}
	suite.customer = &domain.User{UserID: uuid.NewString(), Username: "ali"}
}

func (suite *SupportServiceTestSuite) TestSendMessage() {
	suite.supportRepo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m domain.SupportMessage) bool {
		return m.Message == "card is blocked" && !m.IsAdminReply && m.UserID == suite.customer.UserID
	})).Return(nil).Once()

	msg, err := suite.service.SendMessage(context.Background(), suite.customer.UserID, "  card is blocked ")

	suite.Require().NoError(err)
	suite.False(msg.IsRead)
	suite.supportRepo.AssertExpectations(suite.T())
}

func (suite *SupportServiceTestSuite) TestSendMessage_Empty() {
	_, err := suite.service.SendMessage(context.Background(), suite.customer.UserID, "   ")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.supportRepo.AssertNotCalled(suite.T(), "SaveMessage", mock.Anything, mock.Anything)
}

func (suite *SupportServiceTestSuite) TestListMyMessages_MarksRepliesRead() {
	messages := []domain.SupportMessage{{MessageID: uuid.NewString(), UserID: suite.customer.UserID, IsAdminReply: true}}
	suite.supportRepo.On("ListUserMessages", mock.Anything, suite.customer.UserID).Return(messages, nil).Once()
	suite.supportRepo.On("MarkThreadRead", mock.Anything, suite.customer.UserID, true).Return(nil).Once()

	got, err := suite.service.ListMyMessages(context.Background(), suite.customer.UserID)

	suite.Require().NoError(err)
	suite.Len(got, 1)
	suite.supportRepo.AssertExpectations(suite.T())
}

func (suite *SupportServiceTestSuite) TestReply_RequiresStaff() {
	suite.userRepo.On("FindUserByID", mock.Anything, suite.customer.UserID).Return(suite.customer, nil).Once()

	_, err := suite.service.Reply(context.Background(), suite.customer.UserID, suite.customer.UserID, "hi")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *SupportServiceTestSuite) TestReply() {
	suite.userRepo.On("FindUserByID", mock.Anything, suite.staff.UserID).Return(suite.staff, nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, suite.customer.UserID).Return(suite.customer, nil).Once()
	suite.supportRepo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m domain.SupportMessage) bool {
		return m.IsAdminReply && m.UserID == suite.customer.UserID
	})).Return(nil).Once()

	msg, err := suite.service.Reply(context.Background(), suite.staff.UserID, suite.customer.UserID, "unblocked")

	suite.Require().NoError(err)
	suite.True(msg.IsAdminReply)
}

func (suite *SupportServiceTestSuite) TestGetConversation_MarksUserMessagesRead() {
	suite.userRepo.On("FindUserByID", mock.Anything, suite.staff.UserID).Return(suite.staff, nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, suite.customer.UserID).Return(suite.customer, nil).Once()
	suite.supportRepo.On("ListUserMessages", mock.Anything, suite.customer.UserID).Return([]domain.SupportMessage{}, nil).Once()
	suite.supportRepo.On("MarkThreadRead", mock.Anything, suite.customer.UserID, false).Return(nil).Once()

	_, err := suite.service.GetConversation(context.Background(), suite.staff.UserID, suite.customer.UserID)

	suite.Require().NoError(err)
	suite.supportRepo.AssertExpectations(suite.T())
}

func (suite *SupportServiceTestSuite) TestStaffUnreadCount() {
	suite.userRepo.On("FindUserByID", mock.Anything, suite.staff.UserID).Return(suite.staff, nil).Once()
	suite.supportRepo.On("CountUnreadFromUsers", mock.Anything).Return(3, nil).Once()

	count, err := suite.service.StaffUnreadCount(context.Background(), suite.staff.UserID)

	suite.Require().NoError(err)
	suite.Equal(3, count)
}

func TestSupportService(t *testing.T) {
	suite.Run(t, new(SupportServiceTestSuite))
}
