// Package audit persists one record per tool invocation. Writes are
// best-effort: an audit failure is logged and never fails the invocation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Record is one invocation history entry.
type Record struct {
	ID         string  `json:"id"`
	Tool       string  `json:"tool"`
	Arguments  string  `json:"arguments"`
	Outcome    Outcome `json:"outcome"`
	Error      string  `json:"error,omitempty"`
	DurationMs int64   `json:"durationMs"`
	CreatedAt  int64   `json:"createdAt"`
}

// NewRecord stamps a record with an id and creation time.
func NewRecord(tool, arguments string, outcome Outcome, errText string, duration time.Duration) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Tool:       tool,
		Arguments:  arguments,
		Outcome:    outcome,
		Error:      errText,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now().Unix(),
	}
}

// Store is the invocation history backend.
type Store interface {
	Append(ctx context.Context, record *Record) error
	ListLatest(ctx context.Context, limit int) ([]*Record, error)
	Close() error
}
