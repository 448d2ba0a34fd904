// Package export writes expense history to interchange formats: a flat CSV
// for spreadsheets and a versioned JSON backup that can be restored later.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

// BackupVersion identifies the backup file layout.
const BackupVersion = "1.0.0"

const (
	csvHeader      = "Date,Description,Category,Amount,Type,Source"
	csvTimeLayout  = "2006-01-02 15:04:05"
	fileTimeLayout = "2006-01-02_15-04-05"
)

// Backup is the full-fidelity snapshot written to backup files. Field names
// are a stability contract; older backups must keep restoring.
type Backup struct {
	Version   string          `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	Expenses  []model.Expense `json:"expenses"`
	Settings  model.Settings  `json:"settings"`
}

// Exporter reads from storage and renders interchange files.
type Exporter struct {
	storage service.Storage
}

// NewExporter creates an exporter over the given storage.
func NewExporter(storage service.Storage) *Exporter {
	return &Exporter{storage: storage}
}

// WriteCSV streams the full expense history as CSV, newest first. Commas in
// descriptions are folded to semicolons so rows stay single-line and
// unquoted, matching exports users already have.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer) error {
	expenses, err := e.storage.ListExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	if _, err := fmt.Fprintln(w, csvHeader); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	for _, expense := range expenses {
		kind := "Expense"
		if expense.IsIncome {
			kind = "Income"
		}
		row := strings.Join([]string{
			expense.OccurredAt.Format(csvTimeLayout),
			strings.ReplaceAll(expense.Description, ",", ";"),
			string(expense.Category),
			strconv.FormatFloat(expense.Amount, 'f', -1, 64),
			kind,
			string(expense.Source),
		}, ",")
		if _, err := fmt.Fprintln(w, row); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	return nil
}

// ExportCSVFile writes the CSV into dir with a timestamped name and returns
// the full path.
func (e *Exporter) ExportCSVFile(ctx context.Context, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("Xpentrik_Export_%s.csv", now.Format(fileTimeLayout)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := e.WriteCSV(ctx, f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to finish export file: %w", err)
	}
	return path, nil
}

// CreateBackup snapshots all expenses and settings.
func (e *Exporter) CreateBackup(ctx context.Context, now time.Time) (*Backup, error) {
	expenses, err := e.storage.ListExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settings, err := e.storage.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &Backup{
		Version:   BackupVersion,
		CreatedAt: now,
		Expenses:  expenses,
		Settings:  settings,
	}, nil
}

// WriteBackupFile writes a backup into dir with a timestamped name and
// returns the full path.
func (e *Exporter) WriteBackupFile(ctx context.Context, dir string, now time.Time) (string, error) {
	backup, err := e.CreateBackup(ctx, now)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("Xpentrik_Backup_%s.json", now.Format(fileTimeLayout)))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return path, nil
}

// Restore replaces the current expense history and settings with the backup's
// contents and returns the number of expenses restored. Restored records get
// fresh storage IDs; their dates, sources, and raw messages are preserved.
func (e *Exporter) Restore(ctx context.Context, data []byte) (int, error) {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return 0, fmt.Errorf("invalid backup format: %w", err)
	}
	if backup.Expenses == nil {
		return 0, fmt.Errorf("invalid backup format: missing expenses")
	}

	existing, err := e.storage.ListExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list existing expenses: %w", err)
	}
	for _, expense := range existing {
		if err := e.storage.DeleteExpense(ctx, expense.ID); err != nil {
			return 0, fmt.Errorf("failed to clear expense %s: %w", expense.ID, err)
		}
	}

	restored := 0
	for i := range backup.Expenses {
		expense := backup.Expenses[i]
		expense.ID = ""
		if _, err := e.storage.AppendExpense(ctx, &expense); err != nil {
			return restored, fmt.Errorf("failed to restore expense: %w", err)
		}
		restored++
	}

	// Older backups may predate settings; keep whatever is current then.
	if backup.Settings != (model.Settings{}) {
		if err := e.storage.SaveSettings(ctx, backup.Settings); err != nil {
			return restored, fmt.Errorf("failed to restore settings: %w", err)
		}
	}
	return restored, nil
}
