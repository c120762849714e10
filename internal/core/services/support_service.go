package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/google/uuid"
)

type supportService struct {
	BaseService
	supportRepo portsrepo.SupportRepositoryFacade
	userRepo    portsrepo.UserReader
}

// NewSupportService creates the support chat service.
func NewSupportService(supportRepo portsrepo.SupportRepositoryFacade, userRepo portsrepo.UserReader) portssvc.SupportSvcFacade {
	return &supportService{
		supportRepo: supportRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.SupportSvcFacade = (*supportService)(nil)

func (s *supportService) newMessage(userID, text string, adminReply bool) (domain.SupportMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.SupportMessage{}, fmt.Errorf("%w: message cannot be empty", apperrors.ErrValidation)
	}
	return domain.SupportMessage{
		MessageID:    uuid.NewString(),
		UserID:       userID,
		Message:      text,
		IsAdminReply: adminReply,
		CreatedAt:    nowUTC(),
	}, nil
}

func (s *supportService) ListMyMessages(ctx context.Context, userID string) ([]domain.SupportMessage, error) {
	messages, err := s.supportRepo.ListUserMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list support messages: %w", err)
	}
	if err := s.supportRepo.MarkThreadRead(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("failed to mark replies read: %w", err)
	}
	return messages, nil
}

func (s *supportService) SendMessage(ctx context.Context, userID, message string) (*domain.SupportMessage, error) {
	msg, err := s.newMessage(userID, message, false)
	if err != nil {
		return nil, err
	}
	if err := s.supportRepo.SaveMessage(ctx, msg); err != nil {
		s.LogError(ctx, err, "Failed to save support message", slog.String("user_id", userID))
		return nil, err
	}
	return &msg, nil
}

func (s *supportService) MyUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.supportRepo.CountUnread(ctx, userID, true)
}

// requireStaff fails with ErrForbidden unless staffID belongs to a staff member.
func (s *supportService) requireStaff(ctx context.Context, staffID string) error {
	user, err := s.userRepo.FindUserByID(ctx, staffID)
	if err != nil {
		return err
	}
	if !user.IsStaff {
		return fmt.Errorf("%w: staff access required", apperrors.ErrForbidden)
	}
	return nil
}

func (s *supportService) ListConversations(ctx context.Context, staffID string) ([]domain.SupportConversation, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.supportRepo.ListConversations(ctx)
}

func (s *supportService) GetConversation(ctx context.Context, staffID, userID string) ([]domain.SupportMessage, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	messages, err := s.supportRepo.ListUserMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list support messages: %w", err)
	}
	if err := s.supportRepo.MarkThreadRead(ctx, userID, false); err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return messages, nil
}

func (s *supportService) Reply(ctx context.Context, staffID, userID, message string) (*domain.SupportMessage, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	msg, err := s.newMessage(userID, message, true)
	if err != nil {
		return nil, err
	}
	if err := s.supportRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Support reply sent",
		slog.String("staff_id", staffID),
		slog.String("user_id", userID))
	return &msg, nil
}

func (s *supportService) StaffUnreadCount(ctx context.Context, staffID string) (int, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return 0, err
	}
	return s.supportRepo.CountUnreadFromUsers(ctx)
}
