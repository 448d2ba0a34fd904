package insights

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/storage"
)

func setupAnalyzer(t *testing.T) (*Analyzer, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return NewAnalyzer(store), store
}

func addExpense(t *testing.T, store *storage.SQLiteStorage, amount float64, category model.CategoryID, at time.Time, isIncome bool) {
	t.Helper()
	_, err := store.AppendExpense(context.Background(), &model.Expense{
		Amount:     amount,
		Category:   category,
		OccurredAt: at,
		Source:     model.SourceManual,
		IsIncome:   isIncome,
	})
	require.NoError(t, err)
}

func TestMonthlyReport(t *testing.T) {
	analyzer, store := setupAnalyzer(t)
	ctx := context.Background()

	// Mid-January reference: 15 of 31 days elapsed.
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	addExpense(t, store, 3000, model.CategoryFood, now.AddDate(0, 0, -2), false)
	addExpense(t, store, 3000, model.CategoryFood, now.AddDate(0, 0, -1), false)
	addExpense(t, store, 1500, model.CategoryTransport, now, false)
	// Income must not count toward spend.
	addExpense(t, store, 50000, model.CategoryIncome, now, true)
	// Last month.
	addExpense(t, store, 10000, model.CategoryShopping, now.AddDate(0, -1, 0), false)

	report, err := analyzer.MonthlyReport(ctx, now)
	require.NoError(t, err)

	assert.InDelta(t, 7500, report.CurrentMonthTotal, 0.01)
	assert.InDelta(t, 10000, report.LastMonthTotal, 0.01)
	assert.InDelta(t, -25, report.MonthOverMonthChange, 0.01)
	assert.InDelta(t, 15, report.BudgetProgress, 0.01) // 7500 of default 50000
	assert.Equal(t, 16, report.DaysRemaining)
	assert.InDelta(t, 500, report.AverageDailySpend, 0.01)
	assert.InDelta(t, 15500, report.ProjectedMonthly, 0.01)
	assert.Equal(t, VelocityGood, report.VelocityStatus)
	assert.False(t, report.IsOverBudget)
	assert.False(t, report.IsNearBudget)

	require.NotNil(t, report.TopCategory)
	assert.Equal(t, model.CategoryFood, report.TopCategory.Category)
	assert.InDelta(t, 6000, report.TopCategory.Amount, 0.01)

	require.NotNil(t, report.TopDay)
	assert.Equal(t, "2026-01-13", report.TopDay.Date)

	// Dropped spend month-over-month earns the encouragement tip.
	assert.Contains(t, report.Tips, "Great! You spent less this month. Keep it up!")
}

func TestMonthlyReport_EmptyHistory(t *testing.T) {
	analyzer, _ := setupAnalyzer(t)

	report, err := analyzer.MonthlyReport(context.Background(), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Zero(t, report.CurrentMonthTotal)
	assert.Zero(t, report.MonthOverMonthChange)
	assert.Nil(t, report.TopDay)
	assert.Nil(t, report.TopCategory)
	assert.Equal(t, VelocityGood, report.VelocityStatus)
	assert.Equal(t, []string{"Your spending looks good! Keep tracking your expenses."}, report.Tips)
}

func TestMonthlyReport_OverBudget(t *testing.T) {
	analyzer, store := setupAnalyzer(t)
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	addExpense(t, store, 60000, model.CategoryShopping, now.AddDate(0, 0, -5), false)

	report, err := analyzer.MonthlyReport(context.Background(), now)
	require.NoError(t, err)

	assert.True(t, report.IsOverBudget)
	assert.False(t, report.IsNearBudget)
	assert.Equal(t, VelocityOver, report.VelocityStatus)
	assert.InDelta(t, 120, report.BudgetProgress, 0.01)
	assert.Contains(t, report.Tips[0], "90% of your budget")
}

func TestMonthlyReport_TopCategoryConcentrationTip(t *testing.T) {
	analyzer, store := setupAnalyzer(t)
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	addExpense(t, store, 900, model.CategoryFood, now, false)
	addExpense(t, store, 100, model.CategoryTransport, now, false)

	report, err := analyzer.MonthlyReport(context.Background(), now)
	require.NoError(t, err)

	found := false
	for _, tip := range report.Tips {
		if tip == "food accounts for over 40% of your spending. Consider reviewing this category." {
			found = true
		}
	}
	assert.True(t, found, "expected concentration tip, got %v", report.Tips)
}
