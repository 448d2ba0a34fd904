// Package service defines the contracts between the ingestion core and its
// collaborators: persistence, device SMS sources, and notifications.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
)

// Storage defines the persistence layer contract.
type Storage interface {
	// Expense operations. AppendExpense assigns the record ID and creation
	// timestamp; the returned expense is the persisted form.
	AppendExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	// Summary queries for reports.
	GetCategorySummary(ctx context.Context, start, end time.Time) (map[model.CategoryID]float64, error)
	GetDailyTotals(ctx context.Context, start, end time.Time) (map[string]float64, error)
	GetTotalSpent(ctx context.Context, start, end time.Time) (float64, error)

	// Processed-fingerprint ledger persistence, in insertion order.
	LoadProcessedFingerprints(ctx context.Context) ([]string, error)
	SaveProcessedFingerprints(ctx context.Context, fingerprints []string) error

	// Settings.
	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	Migrate(ctx context.Context) error
	Close() error
}

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Category      model.CategoryID
	ExcludeIncome bool
	Limit         int
}

// ReadOptions parameterizes a bulk inbox read.
type ReadOptions struct {
	Since    time.Time
	MaxCount int
}

// SourceStatus describes whether a message source can deliver anything.
// When Supported is false the system degrades to manual-paste-only mode.
type SourceStatus struct {
	Message           string
	Supported         bool
	PermissionGranted bool
}

// MessageSource supplies raw SMS batches. Implementations are platform
// specific; callers must tolerate an unsupported source.
type MessageSource interface {
	Status(ctx context.Context) SourceStatus

	// ReadMessages returns up to MaxCount messages received since the cutoff.
	ReadMessages(ctx context.Context, opts ReadOptions) ([]model.RawMessage, error)

	// PendingMessages returns the background capture queue; ClearPending
	// empties it and is only called after a successful drain.
	PendingMessages(ctx context.Context) ([]model.RawMessage, error)
	ClearPending(ctx context.Context) error
}

// Notifier is informed when a new expense is materialized. Delivery is
// fire-and-forget; failures never affect ingestion outcome.
type Notifier interface {
	ExpenseAdded(ctx context.Context, expense model.Expense) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
