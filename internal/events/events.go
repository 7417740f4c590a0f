// Package events publishes transaction events for downstream consumers.
// Publishing is best-effort; the dispatcher logs and ignores publish errors.
package events

import (
	"context"
	"time"
)

// Event describes one successful state-changing operation.
type Event struct {
	Tool          string `json:"tool"`
	TransactionID string `json:"transactionId,omitempty"`
	Payload       any    `json:"payload"`
	OccurredAt    int64  `json:"occurredAt"`
}

// NewEvent stamps an event with the current time.
func NewEvent(tool, transactionID string, payload any) Event {
	return Event{
		Tool:          tool,
		TransactionID: transactionID,
		Payload:       payload,
		OccurredAt:    time.Now().Unix(),
	}
}

// Publisher delivers events to an external system.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }
