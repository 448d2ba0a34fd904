package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/xpentrik/internal/common"
	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

// AppendExpense persists a new expense. The record ID and creation timestamp
// are assigned here; the returned expense is the persisted form.
func (s *SQLiteStorage) AppendExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	saved := *expense
	saved.CreatedAt = time.Now()

	// IDs derive from the creation instant. Bump on the rare same-instant
	// collision rather than failing the append.
	id := saved.CreatedAt.UnixNano()
	for attempt := 0; attempt < 3; attempt++ {
		saved.ID = strconv.FormatInt(id, 10)

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO expenses (
				id, amount, category, description, occurred_at, created_at,
				source, is_income, card_last4, raw_message, sender, confidence
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			saved.ID,
			saved.Amount,
			string(saved.Category),
			saved.Description,
			saved.OccurredAt,
			saved.CreatedAt,
			string(saved.Source),
			saved.IsIncome,
			saved.CardLast4,
			saved.RawMessage,
			saved.Sender,
			saved.Confidence,
		)
		if err == nil {
			return &saved, nil
		}
		if !isUniqueConstraintErr(err) {
			return nil, fmt.Errorf("failed to insert expense: %w", err)
		}
		id++
	}

	return nil, fmt.Errorf("failed to insert expense: %w", common.ErrDuplicateEntry)
}

// ListExpenses returns expenses matching the filter, newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, amount, category, description, occurred_at, created_at,
		       source, is_income, card_last4, raw_message, sender, confidence
		FROM expenses
		WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.StartDate != nil {
		query += " AND occurred_at >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND occurred_at <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.ExcludeIncome {
		query += " AND is_income = 0"
	}

	query += " ORDER BY occurred_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// GetExpenseByID returns a single expense.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount, category, description, occurred_at, created_at,
		       source, is_income, card_last4, raw_message, sender, confidence
		FROM expenses WHERE id = ?
	`, id)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	return expense, err
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// GetCategorySummary returns total spend per category for the period,
// excluding income.
func (s *SQLiteStorage) GetCategorySummary(ctx context.Context, start, end time.Time) (map[model.CategoryID]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE is_income = 0 AND occurred_at >= ? AND occurred_at <= ?
		GROUP BY category
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[model.CategoryID]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summary[model.CategoryID(category)] = total
	}
	return summary, rows.Err()
}

// GetDailyTotals returns total spend per calendar day (YYYY-MM-DD),
// excluding income.
func (s *SQLiteStorage) GetDailyTotals(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date(occurred_at), SUM(amount)
		FROM expenses
		WHERE is_income = 0 AND occurred_at >= ? AND occurred_at <= ?
		GROUP BY date(occurred_at)
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make(map[string]float64)
	for rows.Next() {
		var day string
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("failed to scan daily totals: %w", err)
		}
		totals[day] = total
	}
	return totals, rows.Err()
}

// GetTotalSpent returns the total non-income spend for the period.
func (s *SQLiteStorage) GetTotalSpent(ctx context.Context, start, end time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(amount)
		FROM expenses
		WHERE is_income = 0 AND occurred_at >= ? AND occurred_at <= ?
	`, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query total spent: %w", err)
	}

	return total.Float64, nil
}

func isUniqueConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var expense model.Expense
	var category, source string

	err := row.Scan(
		&expense.ID,
		&expense.Amount,
		&category,
		&expense.Description,
		&expense.OccurredAt,
		&expense.CreatedAt,
		&source,
		&expense.IsIncome,
		&expense.CardLast4,
		&expense.RawMessage,
		&expense.Sender,
		&expense.Confidence,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	expense.Category = model.CategoryID(category)
	expense.Source = model.ExpenseSource(source)
	return &expense, nil
}
