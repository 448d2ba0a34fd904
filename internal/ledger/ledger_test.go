package ledger

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Stable(t *testing.T) {
	at := time.Date(2026, 1, 8, 14, 22, 20, 0, time.UTC)

	fp1 := Fingerprint("Rs.499.00 debited from A/c XX1234", at)
	fp2 := Fingerprint("Rs.499.00 debited from A/c XX1234", at)

	assert.Equal(t, fp1, fp2)
	assert.NotEmpty(t, fp1)
}

func TestFingerprint_TruncatesBody(t *testing.T) {
	at := time.Now()
	prefix := strings.Repeat("a", 50)

	// Only the first 50 characters participate; identical prefixes with the
	// same timestamp collide by design.
	fp1 := Fingerprint(prefix+" tail one", at)
	fp2 := Fingerprint(prefix+" tail two", at)
	assert.Equal(t, fp1, fp2)

	fp3 := Fingerprint("b"+prefix[1:], at)
	assert.NotEqual(t, fp1, fp3)
}

func TestFingerprint_DistinguishesTimestamps(t *testing.T) {
	body := "Rs.100 debited"
	at := time.Date(2026, 1, 8, 14, 22, 20, 0, time.UTC)

	assert.NotEqual(t, Fingerprint(body, at), Fingerprint(body, at.Add(time.Second)))
}

func TestLedger_MarkAndCheck(t *testing.T) {
	l := New(nil)

	assert.False(t, l.IsProcessed("abc"))
	l.MarkProcessed("abc")
	assert.True(t, l.IsProcessed("abc"))

	// Idempotent.
	l.MarkProcessed("abc")
	assert.Equal(t, 1, l.Len())
}

func TestLedger_FIFOEviction(t *testing.T) {
	l := New(nil)

	for i := 0; i < DefaultCapacity+1; i++ {
		l.MarkProcessed(fmt.Sprintf("fp-%04d", i))
	}

	assert.Equal(t, DefaultCapacity, l.Len())
	assert.False(t, l.IsProcessed("fp-0000"), "oldest entry should be evicted")
	assert.True(t, l.IsProcessed("fp-0001"))
	assert.True(t, l.IsProcessed(fmt.Sprintf("fp-%04d", DefaultCapacity)))
}

func TestLedger_SeededFromSnapshot(t *testing.T) {
	l := New([]string{"a", "b", "c"})

	assert.True(t, l.IsProcessed("a"))
	assert.Equal(t, []string{"a", "b", "c"}, l.Snapshot())

	l.MarkProcessed("d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, l.Snapshot())
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := New([]string{"a", "b"})

	snap := l.Snapshot()
	snap[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, l.Snapshot())
}
