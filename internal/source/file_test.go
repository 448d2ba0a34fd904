package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

func writeInbox(t *testing.T, path string, messages []model.RawMessage) {
	t.Helper()
	if err := writeMessageFile(path, messages); err != nil {
		t.Fatalf("Failed to write inbox file: %v", err)
	}
}

func testMessages(base time.Time, n int) []model.RawMessage {
	messages := make([]model.RawMessage, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, model.RawMessage{
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
			Body:       fmt.Sprintf("Rs.%d debited from A/c XX1234", 100+i),
			Sender:     "HDFCBK",
		})
	}
	return messages
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	unconfigured := NewFileSource("")
	if status := unconfigured.Status(ctx); status.Supported {
		t.Error("Expected unconfigured source to be unsupported")
	}

	missing := NewFileSource(filepath.Join(t.TempDir(), "inbox.json"))
	status := missing.Status(ctx)
	if !status.Supported || status.PermissionGranted {
		t.Errorf("Expected supported-but-absent status, got %+v", status)
	}

	inboxPath := filepath.Join(t.TempDir(), "inbox.json")
	writeInbox(t, inboxPath, testMessages(time.Now(), 1))
	status = NewFileSource(inboxPath).Status(ctx)
	if !status.Supported || !status.PermissionGranted {
		t.Errorf("Expected readable status, got %+v", status)
	}
}

func TestReadMessages(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	inboxPath := filepath.Join(t.TempDir(), "inbox.json")
	// Write newest-first to verify ReadMessages re-sorts.
	messages := testMessages(base, 5)
	reversed := make([]model.RawMessage, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		reversed = append(reversed, messages[i])
	}
	writeInbox(t, inboxPath, reversed)

	src := NewFileSource(inboxPath)

	all, err := src.ReadMessages(ctx, service.ReadOptions{})
	if err != nil {
		t.Fatalf("Failed to read messages: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("Expected 5 messages, got %d", len(all))
	}
	if !all[0].ReceivedAt.Equal(base) {
		t.Errorf("Expected oldest first, got %v", all[0].ReceivedAt)
	}

	since, err := src.ReadMessages(ctx, service.ReadOptions{Since: base.Add(2 * time.Minute)})
	if err != nil {
		t.Fatalf("Failed to read messages: %v", err)
	}
	if len(since) != 3 {
		t.Errorf("Expected 3 messages after cutoff, got %d", len(since))
	}

	capped, err := src.ReadMessages(ctx, service.ReadOptions{MaxCount: 2})
	if err != nil {
		t.Fatalf("Failed to read messages: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("Expected 2 messages with cap, got %d", len(capped))
	}
}

func TestReadMessages_MissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	src := NewFileSource(filepath.Join(tmpDir, "absent.json"))
	messages, err := src.ReadMessages(ctx, service.ReadOptions{})
	if err != nil {
		t.Fatalf("Missing inbox must not error: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("Expected empty batch, got %d", len(messages))
	}

	badPath := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(badPath, []byte("not json"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := NewFileSource(badPath).ReadMessages(ctx, service.ReadOptions{}); err == nil {
		t.Error("Expected error for malformed inbox")
	}
}

func TestPendingQueue(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	src := NewFileSource(filepath.Join(t.TempDir(), "inbox.json"))

	pending, err := src.PendingMessages(ctx)
	if err != nil {
		t.Fatalf("Failed to read pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected empty queue, got %d", len(pending))
	}

	for _, msg := range testMessages(base, 3) {
		if err := src.CapturePending(ctx, msg); err != nil {
			t.Fatalf("Failed to capture: %v", err)
		}
	}

	pending, err = src.PendingMessages(ctx)
	if err != nil {
		t.Fatalf("Failed to read pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("Expected 3 pending, got %d", len(pending))
	}
	if !pending[0].ReceivedAt.Equal(base) {
		t.Errorf("Expected oldest first, got %v", pending[0].ReceivedAt)
	}

	if err := src.ClearPending(ctx); err != nil {
		t.Fatalf("Failed to clear pending: %v", err)
	}
	pending, err = src.PendingMessages(ctx)
	if err != nil {
		t.Fatalf("Failed to read pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected cleared queue, got %d", len(pending))
	}

	// Clearing an already-empty queue is fine.
	if err := src.ClearPending(ctx); err != nil {
		t.Errorf("Clear on empty queue failed: %v", err)
	}
}

func TestCapturePending_EvictsOldestAtCap(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	src := NewFileSource(filepath.Join(t.TempDir(), "inbox.json"))

	for _, msg := range testMessages(base, MaxPendingMessages+5) {
		if err := src.CapturePending(ctx, msg); err != nil {
			t.Fatalf("Failed to capture: %v", err)
		}
	}

	pending, err := src.PendingMessages(ctx)
	if err != nil {
		t.Fatalf("Failed to read pending: %v", err)
	}
	if len(pending) != MaxPendingMessages {
		t.Fatalf("Expected queue capped at %d, got %d", MaxPendingMessages, len(pending))
	}
	// The 5 oldest were evicted.
	if !pending[0].ReceivedAt.Equal(base.Add(5 * time.Minute)) {
		t.Errorf("Expected oldest entries evicted, head at %v", pending[0].ReceivedAt)
	}
}
