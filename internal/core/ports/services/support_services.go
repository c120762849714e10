package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// SupportUserSvc is the user side of the support chat.
type SupportUserSvc interface {
	// ListMyMessages returns the user's thread and marks staff replies read.
	ListMyMessages(ctx context.Context, userID string) ([]domain.SupportMessage, error)
	SendMessage(ctx context.Context, userID, message string) (*domain.SupportMessage, error)
	MyUnreadCount(ctx context.Context, userID string) (int, error)
}

// SupportStaffSvc is the staff side of the support chat. Non-staff callers get apperrors.ErrForbidden.
type SupportStaffSvc interface {
	ListConversations(ctx context.Context, staffID string) ([]domain.SupportConversation, error)

	// GetConversation returns a user's thread and marks that user's messages read.
	GetConversation(ctx context.Context, staffID, userID string) ([]domain.SupportMessage, error)

	Reply(ctx context.Context, staffID, userID, message string) (*domain.SupportMessage, error)
	StaffUnreadCount(ctx context.Context, staffID string) (int, error)
}

// SupportSvcFacade combines both sides of the support chat
type SupportSvcFacade interface {
	SupportUserSvc
	SupportStaffSvc
}
