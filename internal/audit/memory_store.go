package audit

import (
	"context"
	"sync"
)

// memoryLimit bounds the in-process history so a long-lived server does not
// grow without end.
const memoryLimit = 1000

// MemoryStore keeps the invocation history in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record, evicting the oldest entries past the limit.
func (s *MemoryStore) Append(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record
	s.records = append(s.records, &clone)
	if len(s.records) > memoryLimit {
		s.records = s.records[len(s.records)-memoryLimit:]
	}
	return nil
}

// ListLatest returns up to limit records, newest first.
func (s *MemoryStore) ListLatest(_ context.Context, limit int) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]*Record, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *s.records[i]
		out = append(out, &clone)
	}
	return out, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }
