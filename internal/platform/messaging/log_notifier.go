package messaging

import (
	"context"
	"log/slog"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
)

// LogNotifier is used when no broker is configured. It only writes to the request log.
type LogNotifier struct{}

var _ portssvc.Notifier = LogNotifier{}

func (LogNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	// Local development has no mailer, so the code is only visible here.
	middleware.GetLoggerFromCtx(ctx).Warn("No message broker configured, verification code not sent",
		slog.String("email", email),
		slog.String("code", code))
	return nil
}

func (LogNotifier) PublishEvent(ctx context.Context, event domain.DomainEvent) error {
	middleware.GetLoggerFromCtx(ctx).Info("Event",
		slog.String("event", event.Name),
		slog.String("event_id", event.EventID),
		slog.String("user_id", event.UserID))
	return nil
}
