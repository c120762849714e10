package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSupportRepository stores the support chat. Each user has exactly one thread.
type PgxSupportRepository struct {
	BaseRepository
}

func newPgxSupportRepository(db *pgxpool.Pool) portsrepo.SupportRepositoryFacade {
	return &PgxSupportRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.SupportRepositoryFacade = (*PgxSupportRepository)(nil)

func (r *PgxSupportRepository) SaveMessage(ctx context.Context, msg domain.SupportMessage) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO support_messages (message_id, user_id, message, is_admin_reply, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		msg.MessageID, msg.UserID, msg.Message, msg.IsAdminReply, msg.IsRead, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save support message: %w", err)
	}
	return nil
}

func (r *PgxSupportRepository) ListUserMessages(ctx context.Context, userID string) ([]domain.SupportMessage, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT message_id, user_id, message, is_admin_reply, is_read, created_at
		FROM support_messages
		WHERE user_id = $1
		ORDER BY created_at;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query support messages: %w", err)
	}
	defer rows.Close()

	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SupportMessage, error) {
		var m domain.SupportMessage
		err := row.Scan(&m.MessageID, &m.UserID, &m.Message, &m.IsAdminReply, &m.IsRead, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan support messages: %w", err)
	}
	return msgs, nil
}

func (r *PgxSupportRepository) MarkThreadRead(ctx context.Context, userID string, adminReplies bool) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE support_messages SET is_read = TRUE
		WHERE user_id = $1 AND is_admin_reply = $2 AND NOT is_read;`, userID, adminReplies)
	if err != nil {
		return fmt.Errorf("failed to mark support thread read: %w", err)
	}
	return nil
}

func (r *PgxSupportRepository) CountUnread(ctx context.Context, userID string, adminReplies bool) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM support_messages
		WHERE user_id = $1 AND is_admin_reply = $2 AND NOT is_read;`, userID, adminReplies).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread support messages: %w", err)
	}
	return n, nil
}

func (r *PgxSupportRepository) CountUnreadFromUsers(ctx context.Context) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM support_messages WHERE NOT is_admin_reply AND NOT is_read;`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread support messages: %w", err)
	}
	return n, nil
}

func (r *PgxSupportRepository) ListConversations(ctx context.Context) ([]domain.SupportConversation, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT u.user_id, COALESCE(u.username, ''), u.email,
			COUNT(*) FILTER (WHERE NOT m.is_admin_reply AND NOT m.is_read) AS unread,
			(ARRAY_AGG(m.message ORDER BY m.created_at DESC))[1],
			MAX(m.created_at) AS last_at
		FROM support_messages m
		JOIN users u ON u.user_id = m.user_id
		GROUP BY u.user_id, u.username, u.email
		ORDER BY (COUNT(*) FILTER (WHERE NOT m.is_admin_reply AND NOT m.is_read) > 0) DESC, last_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query support conversations: %w", err)
	}
	defer rows.Close()

	convs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SupportConversation, error) {
		var c domain.SupportConversation
		err := row.Scan(&c.UserID, &c.Username, &c.Email, &c.UnreadCount, &c.LastMessage, &c.LastMessageTime)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan support conversations: %w", err)
	}
	return convs, nil
}
