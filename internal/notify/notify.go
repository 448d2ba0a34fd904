// Package notify delivers expense-added notifications. Delivery is
// fire-and-forget; the ingestion pipeline never fails because of it.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/xpentrik/internal/model"
)

// LogNotifier announces new expenses on the structured log. It stands in for
// the device notification channel when running headless.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier writing to the given logger, or the
// default logger when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// ExpenseAdded logs the materialized expense.
func (n *LogNotifier) ExpenseAdded(ctx context.Context, expense model.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kind := "expense"
	if expense.IsIncome {
		kind = "income"
	}
	n.logger.Info(fmt.Sprintf("New %s added", kind),
		"amount", expense.Amount,
		"category", string(expense.Category),
		"description", expense.Description,
		"source", string(expense.Source),
	)
	return nil
}
