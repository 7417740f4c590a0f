package audit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := NewRecord(fmt.Sprintf("tool_%d", i), "{}", OutcomeSuccess, "", 5*time.Millisecond)
		if err := store.Append(ctx, record); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := store.ListLatest(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Tool != "tool_2" {
		t.Fatalf("expected newest first, got %s", records[0].Tool)
	}

	all, err := store.ListLatest(ctx, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < memoryLimit+10; i++ {
		record := NewRecord("get_account_balance", "{}", OutcomeSuccess, "", 0)
		record.CreatedAt = int64(i)
		if err := store.Append(ctx, record); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := store.ListLatest(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != memoryLimit {
		t.Fatalf("expected history capped at %d, got %d", memoryLimit, len(records))
	}
	if records[0].CreatedAt != int64(memoryLimit+9) {
		t.Fatalf("expected newest record to survive, got created_at %d", records[0].CreatedAt)
	}
}

func TestNewRecordStampsIdentity(t *testing.T) {
	record := NewRecord("transfer_hbar", `{"amount":1}`, OutcomeFailure, "boom", 42*time.Millisecond)
	if record.ID == "" {
		t.Fatal("expected generated id")
	}
	if record.DurationMs != 42 {
		t.Fatalf("unexpected duration %d", record.DurationMs)
	}
	if record.CreatedAt == 0 {
		t.Fatal("expected creation timestamp")
	}
}
