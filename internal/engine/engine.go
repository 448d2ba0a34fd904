// Package engine implements the SMS ingestion pipeline: classification,
// deduplication, and materialization of expenses.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/xpentrik/internal/classification"
	"github.com/Veraticus/xpentrik/internal/common"
	"github.com/Veraticus/xpentrik/internal/ledger"
	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

// ManualSender tags messages pasted by hand rather than read from a device.
const ManualSender = "MANUAL"

// Pipeline orchestrates message ingestion from all sources. All entry points
// serialize on a single mutex: the ledger's read-then-write cycle and the
// expense append are one critical section, and concurrent ingestion (a live
// capture arriving mid-scan) must not materialize duplicates.
type Pipeline struct {
	storage    service.Storage
	classifier *classification.Classifier
	notifier   service.Notifier
	ledger     *ledger.Ledger
	mu         sync.Mutex
}

// New builds a pipeline, seeding the dedup ledger from storage.
func New(ctx context.Context, storage service.Storage, classifier *classification.Classifier, notifier service.Notifier) (*Pipeline, error) {
	fingerprints, err := storage.LoadProcessedFingerprints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed fingerprints: %w", err)
	}

	return &Pipeline{
		storage:    storage,
		classifier: classifier,
		notifier:   notifier,
		ledger:     ledger.New(fingerprints),
	}, nil
}

// MessageFailure reports a single message whose expense could not be
// persisted. Its fingerprint stays unmarked so the next scan retries it.
type MessageFailure struct {
	Err         error
	Fingerprint string
	Sender      string
}

// BatchResult summarizes one ingestion batch.
type BatchResult struct {
	Created          []model.Expense
	Failures         []MessageFailure
	Scanned          int
	AlreadyProcessed int
}

// Ingest runs a batch of raw messages through classify → dedup → materialize,
// in input order. A failure to persist one expense never aborts the batch.
func (p *Pipeline) Ingest(ctx context.Context, messages []model.RawMessage) (*BatchResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := &BatchResult{Scanned: len(messages)}

	for _, msg := range messages {
		fp := ledger.Fingerprint(msg.Body, msg.ReceivedAt)
		if p.ledger.IsProcessed(fp) {
			result.AlreadyProcessed++
			continue
		}

		parsed := p.classifier.Classify(msg.Body, msg.Sender, msg.ReceivedAt)
		expense := Materialize(parsed)
		if expense == nil {
			// Not a transaction. Mark it anyway so known non-transactional
			// messages are not reclassified on every poll cycle.
			p.ledger.MarkProcessed(fp)
			continue
		}

		saved, err := p.storage.AppendExpense(ctx, expense)
		if err != nil {
			common.LogError(err, "failed to persist expense from message", common.Fields{
				"sender":      msg.Sender,
				"fingerprint": fp,
			})
			result.Failures = append(result.Failures, MessageFailure{
				Err:         err,
				Fingerprint: fp,
				Sender:      msg.Sender,
			})
			continue
		}

		p.ledger.MarkProcessed(fp)
		result.Created = append(result.Created, *saved)
		p.notify(ctx, *saved)
	}

	if err := p.storage.SaveProcessedFingerprints(ctx, p.ledger.Snapshot()); err != nil {
		return result, fmt.Errorf("failed to persist ledger: %w", err)
	}

	return result, nil
}

// PasteResult is the outcome of a manual single-message paste. The parse is
// exposed even on rejection so the caller can show what was extracted.
type PasteResult struct {
	Expense          *model.Expense
	Parsed           model.ParsedTransaction
	Created          bool
	AlreadyProcessed bool
}

// IngestManual processes user-supplied text with a synthetic sender tag.
func (p *Pipeline) IngestManual(ctx context.Context, body, sender string) (*PasteResult, error) {
	if sender == "" {
		sender = ManualSender
	}
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	fp := ledger.Fingerprint(body, now)
	if p.ledger.IsProcessed(fp) {
		return &PasteResult{AlreadyProcessed: true}, nil
	}

	parsed := p.classifier.Classify(body, sender, now)
	expense := Materialize(parsed)
	if expense == nil {
		p.ledger.MarkProcessed(fp)
		if err := p.storage.SaveProcessedFingerprints(ctx, p.ledger.Snapshot()); err != nil {
			return &PasteResult{Parsed: parsed}, fmt.Errorf("failed to persist ledger: %w", err)
		}
		return &PasteResult{Parsed: parsed}, nil
	}

	saved, err := p.storage.AppendExpense(ctx, expense)
	if err != nil {
		// Fingerprint stays unmarked: the paste can be retried.
		return &PasteResult{Parsed: parsed}, fmt.Errorf("failed to save expense: %w", err)
	}

	p.ledger.MarkProcessed(fp)
	if err := p.storage.SaveProcessedFingerprints(ctx, p.ledger.Snapshot()); err != nil {
		return &PasteResult{Parsed: parsed, Expense: saved, Created: true}, fmt.Errorf("failed to persist ledger: %w", err)
	}

	p.notify(ctx, *saved)

	return &PasteResult{Parsed: parsed, Expense: saved, Created: true}, nil
}

// DrainPending ingests the background capture queue and clears it only after
// every queued message was handled without a persistence failure.
func (p *Pipeline) DrainPending(ctx context.Context, source service.MessageSource) (*BatchResult, error) {
	pending, err := source.PendingMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending queue: %w", err)
	}
	if len(pending) == 0 {
		return &BatchResult{}, nil
	}

	result, err := p.Ingest(ctx, pending)
	if err != nil {
		return result, err
	}

	if len(result.Failures) > 0 {
		slog.Warn("Keeping pending queue for retry",
			"failures", len(result.Failures))
		return result, nil
	}

	if err := source.ClearPending(ctx); err != nil {
		return result, fmt.Errorf("failed to clear pending queue: %w", err)
	}

	return result, nil
}

// notify informs the notifier of a new expense. Delivery failures are logged
// and never affect ingestion outcome.
func (p *Pipeline) notify(ctx context.Context, expense model.Expense) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.ExpenseAdded(ctx, expense); err != nil {
		slog.Warn("Expense notification failed",
			"expense_id", expense.ID,
			"error", err)
	}
}
