package domain

import "time"

// Event names published to the message broker.
const (
	EventTransactionCreated     = "transaction.created"
	EventTransactionDeleted     = "transaction.deleted"
	EventTransferCompleted      = "transfer.completed"
	EventBudgetThresholdReached = "budget.threshold_reached"
)

// DomainEvent is a notification about a completed state change.
type DomainEvent struct {
	EventID    string    `json:"eventID"`
	Name       string    `json:"name"`
	UserID     string    `json:"userID"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}
