package repositories

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// SupportRepositoryFacade stores support chat messages.
type SupportRepositoryFacade interface {
	SaveMessage(ctx context.Context, msg domain.SupportMessage) error

	// ListUserMessages returns one user's thread oldest first.
	ListUserMessages(ctx context.Context, userID string) ([]domain.SupportMessage, error)

	// MarkThreadRead marks the user's messages read: staff replies when adminReplies is set, the user's own otherwise.
	MarkThreadRead(ctx context.Context, userID string, adminReplies bool) error

	// CountUnread counts unread messages in a thread: staff replies when adminReplies is set, the user's own otherwise.
	CountUnread(ctx context.Context, userID string, adminReplies bool) (int, error)

	// CountUnreadFromUsers counts unread user-written messages across all threads.
	CountUnreadFromUsers(ctx context.Context) (int, error)

	// ListConversations lists one summary per thread, unread first then most recent.
	ListConversations(ctx context.Context) ([]domain.SupportConversation, error)
}
