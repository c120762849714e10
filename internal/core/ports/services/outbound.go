package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

// Notifier hands messages to the outside world. Delivery failures are reported but never
// roll back the operation that produced them.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	PublishEvent(ctx context.Context, event domain.DomainEvent) error
}

// StatementRenderer turns a statement into a printable document.
type StatementRenderer interface {
	Render(statement domain.Statement) ([]byte, error)
}
