package dto

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// SendSupportMessageRequest is a chat message from a user or a staff reply.
type SendSupportMessageRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

// SupportMessageResponse is one chat message.
type SupportMessageResponse struct {
	MessageID    string    `json:"messageID"`
	UserID       string    `json:"userID"`
	Message      string    `json:"message"`
	IsAdminReply bool      `json:"isAdminReply"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UnreadCountResponse is the number of unread messages.
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// ConversationDetailResponse is a staff view of one user's thread.
type ConversationDetailResponse struct {
	UserID   string                   `json:"userID"`
	Messages []SupportMessageResponse `json:"messages"`
}

func ToSupportMessageResponse(m *domain.SupportMessage) SupportMessageResponse {
	return SupportMessageResponse{
		MessageID:    m.MessageID,
		UserID:       m.UserID,
		Message:      m.Message,
		IsAdminReply: m.IsAdminReply,
		IsRead:       m.IsRead,
		CreatedAt:    m.CreatedAt,
	}
}

func ToSupportMessageResponses(ms []domain.SupportMessage) []SupportMessageResponse {
	res := make([]SupportMessageResponse, len(ms))
	for i := range ms {
		res[i] = ToSupportMessageResponse(&ms[i])
	}
	return res
}
