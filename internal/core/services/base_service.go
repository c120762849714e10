package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Notifier portssvc.Notifier
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Publish hands an event to the notifier. Failures are logged and otherwise ignored.
func (s *BaseService) Publish(ctx context.Context, name, userID string, payload any) {
	if s.Notifier == nil {
		return
	}
	event := domain.DomainEvent{
		EventID:    uuid.NewString(),
		Name:       name,
		UserID:     userID,
		OccurredAt: nowUTC(),
		Payload:    payload,
	}
	if err := s.Notifier.PublishEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish event",
			slog.String("event", name),
			slog.String("user_id", userID))
	}
}
