// Package source provides SMS message sources. The CLI cannot read a phone
// inbox directly, so the primary implementation watches exported inbox files
// on disk plus a pending-queue file fed by a background capture hook.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

// MaxPendingMessages bounds the background capture queue. Once full, the
// oldest captured message is dropped to admit a new one.
const MaxPendingMessages = 50

// FileSource reads SMS batches from a JSON inbox export and maintains a
// bounded pending queue in a sibling file.
type FileSource struct {
	inboxPath   string
	pendingPath string
}

// NewFileSource creates a source over the given inbox export. The pending
// queue lives next to it as <inbox>.pending.json.
func NewFileSource(inboxPath string) *FileSource {
	return &FileSource{
		inboxPath:   inboxPath,
		pendingPath: inboxPath + ".pending.json",
	}
}

// Status reports whether the inbox export is readable. A missing file is not
// an error state; it just degrades the app to manual-paste-only mode.
func (f *FileSource) Status(_ context.Context) service.SourceStatus {
	if f.inboxPath == "" {
		return service.SourceStatus{
			Supported: false,
			Message:   "no inbox file configured; paste messages manually",
		}
	}

	info, err := os.Stat(f.inboxPath)
	if errors.Is(err, fs.ErrNotExist) {
		return service.SourceStatus{
			Supported: true,
			Message:   fmt.Sprintf("inbox file %s not found yet", f.inboxPath),
		}
	}
	if err != nil || info.IsDir() {
		return service.SourceStatus{
			Supported: true,
			Message:   fmt.Sprintf("inbox file %s is not readable", f.inboxPath),
		}
	}

	return service.SourceStatus{
		Supported:         true,
		PermissionGranted: true,
		Message:           fmt.Sprintf("reading inbox from %s", f.inboxPath),
	}
}

// ReadMessages returns inbox messages received since the cutoff, oldest
// first, capped at MaxCount when set. A missing inbox file yields an empty
// batch.
func (f *FileSource) ReadMessages(ctx context.Context, opts service.ReadOptions) ([]model.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages, err := readMessageFile(f.inboxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}

	filtered := messages[:0]
	for _, msg := range messages {
		if !opts.Since.IsZero() && msg.ReceivedAt.Before(opts.Since) {
			continue
		}
		filtered = append(filtered, msg)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ReceivedAt.Before(filtered[j].ReceivedAt)
	})

	if opts.MaxCount > 0 && len(filtered) > opts.MaxCount {
		filtered = filtered[:opts.MaxCount]
	}

	return filtered, nil
}

// PendingMessages returns the background capture queue, oldest first.
func (f *FileSource) PendingMessages(ctx context.Context) ([]model.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages, err := readMessageFile(f.pendingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending queue: %w", err)
	}
	return messages, nil
}

// CapturePending appends a message to the pending queue, evicting the oldest
// entry once the queue is full.
func (f *FileSource) CapturePending(ctx context.Context, msg model.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messages, err := readMessageFile(f.pendingPath)
	if err != nil {
		return fmt.Errorf("failed to read pending queue: %w", err)
	}

	messages = append(messages, msg)
	if len(messages) > MaxPendingMessages {
		messages = messages[len(messages)-MaxPendingMessages:]
	}

	return writeMessageFile(f.pendingPath, messages)
}

// ClearPending empties the capture queue. Callers invoke this only after
// every pending message was drained successfully.
func (f *FileSource) ClearPending(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(f.pendingPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear pending queue: %w", err)
	}
	return nil
}

func readMessageFile(path string) ([]model.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var messages []model.RawMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("malformed message file %s: %w", path, err)
	}
	return messages, nil
}

func writeMessageFile(path string, messages []model.RawMessage) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	// Write-then-rename keeps the queue intact if we crash mid-write.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write messages: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace message file: %w", err)
	}
	return nil
}
