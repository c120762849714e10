package domain

import "time"

// SupportMessage is one message in the chat between a user and staff.
// IsAdminReply marks messages written by staff into the user's thread.
type SupportMessage struct {
	MessageID    string    `json:"messageID"`
	UserID       string    `json:"userID"`
	Message      string    `json:"message"`
	IsAdminReply bool      `json:"isAdminReply"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SupportConversation summarises one user's thread for staff.
type SupportConversation struct {
	UserID          string    `json:"userID"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	UnreadCount     int       `json:"unreadCount"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
}
