// Package ledger tracks which messages have already been processed so each
// physical SMS produces at most one stored expense.
package ledger

import (
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

// DefaultCapacity bounds the processed set. Insertion beyond capacity evicts
// the oldest fingerprints in original insertion order.
const DefaultCapacity = 1000

// fingerprintBodyLength is how much of the message body participates in the
// fingerprint. Two messages with identical truncated bodies and identical
// timestamps are the same notification observed twice.
const fingerprintBodyLength = 50

// Fingerprint derives the stable dedup key for a message. Stability across
// process restarts is required since the set is persisted; the exact hash is
// not otherwise load-bearing.
func Fingerprint(body string, receivedAt time.Time) string {
	truncated := body
	if len(truncated) > fingerprintBodyLength {
		truncated = truncated[:fingerprintBodyLength]
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(truncated))
	_, _ = h.Write([]byte("_"))
	_, _ = h.Write([]byte(receivedAt.UTC().Format(time.RFC3339)))
	return strconv.FormatUint(h.Sum64(), 36)
}

// Ledger is a bounded FIFO set of processed fingerprints. It is safe for
// concurrent use, though the ingestion pipeline additionally serializes its
// read-then-write cycles under its own lock.
type Ledger struct {
	seen     map[string]struct{}
	order    []string
	capacity int
	mu       sync.Mutex
}

// New creates a ledger seeded with previously persisted fingerprints, oldest
// first. Entries beyond capacity are evicted immediately.
func New(fingerprints []string) *Ledger {
	l := &Ledger{
		seen:     make(map[string]struct{}, len(fingerprints)),
		order:    make([]string, 0, len(fingerprints)),
		capacity: DefaultCapacity,
	}
	for _, fp := range fingerprints {
		l.add(fp)
	}
	return l
}

// IsProcessed reports whether the fingerprint has already been handled.
func (l *Ledger) IsProcessed(fp string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[fp]
	return ok
}

// MarkProcessed records a fingerprint. Adding an existing fingerprint is a
// no-op and does not disturb insertion order.
func (l *Ledger) MarkProcessed(fp string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.add(fp)
}

func (l *Ledger) add(fp string) {
	if _, ok := l.seen[fp]; ok {
		return
	}
	l.seen[fp] = struct{}{}
	l.order = append(l.order, fp)

	for len(l.order) > l.capacity {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.seen, oldest)
	}
}

// Snapshot returns the fingerprints in insertion order for persistence.
func (l *Ledger) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of tracked fingerprints.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}
