package engine

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

// mockStorage is an in-memory Storage for pipeline tests.
type mockStorage struct {
	failAppendContaining string
	fingerprints         []string
	expenses             []model.Expense
	settings             model.Settings
	nextID               int
}

func newMockStorage() *mockStorage {
	return &mockStorage{settings: model.DefaultSettings()}
}

func (m *mockStorage) AppendExpense(_ context.Context, expense *model.Expense) (*model.Expense, error) {
	if m.failAppendContaining != "" && strings.Contains(expense.RawMessage, m.failAppendContaining) {
		return nil, errors.New("simulated write failure")
	}
	m.nextID++
	saved := *expense
	saved.ID = strconv.Itoa(m.nextID)
	saved.CreatedAt = time.Now()
	m.expenses = append(m.expenses, saved)
	return &saved, nil
}

func (m *mockStorage) ListExpenses(_ context.Context, _ service.ExpenseFilter) ([]model.Expense, error) {
	out := make([]model.Expense, len(m.expenses))
	copy(out, m.expenses)
	return out, nil
}

func (m *mockStorage) GetExpenseByID(_ context.Context, id string) (*model.Expense, error) {
	for i := range m.expenses {
		if m.expenses[i].ID == id {
			return &m.expenses[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockStorage) DeleteExpense(_ context.Context, id string) error {
	for i := range m.expenses {
		if m.expenses[i].ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *mockStorage) GetCategorySummary(_ context.Context, _, _ time.Time) (map[model.CategoryID]float64, error) {
	return map[model.CategoryID]float64{}, nil
}

func (m *mockStorage) GetDailyTotals(_ context.Context, _, _ time.Time) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (m *mockStorage) GetTotalSpent(_ context.Context, _, _ time.Time) (float64, error) {
	var total float64
	for _, e := range m.expenses {
		if !e.IsIncome {
			total += e.Amount
		}
	}
	return total, nil
}

func (m *mockStorage) LoadProcessedFingerprints(_ context.Context) ([]string, error) {
	out := make([]string, len(m.fingerprints))
	copy(out, m.fingerprints)
	return out, nil
}

func (m *mockStorage) SaveProcessedFingerprints(_ context.Context, fingerprints []string) error {
	m.fingerprints = make([]string, len(fingerprints))
	copy(m.fingerprints, fingerprints)
	return nil
}

func (m *mockStorage) GetSettings(_ context.Context) (model.Settings, error) {
	return m.settings, nil
}

func (m *mockStorage) SaveSettings(_ context.Context, settings model.Settings) error {
	m.settings = settings
	return nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }
func (m *mockStorage) Close() error                    { return nil }

// mockNotifier records notifications and can simulate delivery failures.
type mockNotifier struct {
	err      error
	notified []model.Expense
}

func (m *mockNotifier) ExpenseAdded(_ context.Context, expense model.Expense) error {
	if m.err != nil {
		return m.err
	}
	m.notified = append(m.notified, expense)
	return nil
}

// mockSource serves a fixed inbox and pending queue.
type mockSource struct {
	clearErr error
	inbox    []model.RawMessage
	pending  []model.RawMessage
	cleared  bool
}

func (m *mockSource) Status(_ context.Context) service.SourceStatus {
	return service.SourceStatus{Supported: true, PermissionGranted: true}
}

func (m *mockSource) ReadMessages(_ context.Context, opts service.ReadOptions) ([]model.RawMessage, error) {
	out := make([]model.RawMessage, 0, len(m.inbox))
	for _, msg := range m.inbox {
		if !opts.Since.IsZero() && msg.ReceivedAt.Before(opts.Since) {
			continue
		}
		out = append(out, msg)
		if opts.MaxCount > 0 && len(out) == opts.MaxCount {
			break
		}
	}
	return out, nil
}

func (m *mockSource) PendingMessages(_ context.Context) ([]model.RawMessage, error) {
	return m.pending, nil
}

func (m *mockSource) ClearPending(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.pending = nil
	m.cleared = true
	return nil
}
