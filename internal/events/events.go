// Package events publishes savings ledger notifications to a message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys.
const (
	TransactionRecorded = "savings.transaction.recorded"
	GoalCompleted       = "savings.goal.completed"
)

// SavingsEvent is the message body for every savings notification.
type SavingsEvent struct {
	Type          string          `json:"type"`
	GoalID        string          `json:"goal_id"`
	GoalName      string          `json:"goal_name"`
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Kind          string          `json:"kind,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ToJSON encodes the event.
func (e SavingsEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event SavingsEvent) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, SavingsEvent) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
