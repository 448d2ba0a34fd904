// Package insights computes month-level spending summaries, budget
// projections, and advisory tips from the persisted expense history.
package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

// VelocityStatus classifies the current spend rate against the budget rate.
type VelocityStatus string

const (
	VelocityGood    VelocityStatus = "good"
	VelocityWarning VelocityStatus = "warning"
	VelocityOver    VelocityStatus = "over"
)

// DayTotal is a single day's aggregate spend.
type DayTotal struct {
	Date   string
	Amount float64
}

// CategoryTotal is a single category's aggregate spend.
type CategoryTotal struct {
	Category model.CategoryID
	Amount   float64
}

// Report summarizes spending for the month containing the reference time.
// Income records are excluded from every figure.
type Report struct {
	CurrentMonthTotal    float64
	LastMonthTotal       float64
	MonthOverMonthChange float64
	BudgetProgress       float64
	DaysRemaining        int
	AverageDailySpend    float64
	ProjectedMonthly     float64
	SpendingVelocity     float64
	BudgetVelocity       float64
	VelocityStatus       VelocityStatus
	TopDay               *DayTotal
	TopCategory          *CategoryTotal
	Tips                 []string
	IsOverBudget         bool
	IsNearBudget         bool
}

// Analyzer derives reports from storage.
type Analyzer struct {
	storage service.Storage
}

// NewAnalyzer creates an analyzer over the given storage.
func NewAnalyzer(storage service.Storage) *Analyzer {
	return &Analyzer{storage: storage}
}

// MonthlyReport builds the spending report for the month containing now.
func (a *Analyzer) MonthlyReport(ctx context.Context, now time.Time) (*Report, error) {
	settings, err := a.storage.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	monthStart, monthEnd := monthBounds(now)
	lastStart, lastEnd := monthBounds(monthStart.AddDate(0, 0, -1))

	currentTotal, err := a.storage.GetTotalSpent(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to total current month: %w", err)
	}
	lastTotal, err := a.storage.GetTotalSpent(ctx, lastStart, lastEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to total last month: %w", err)
	}

	daysInMonth := monthEnd.Day()
	daysElapsed := now.Day()
	averageDaily := currentTotal / float64(max(1, daysElapsed))
	projected := averageDaily * float64(daysInMonth)

	report := &Report{
		CurrentMonthTotal: currentTotal,
		LastMonthTotal:    lastTotal,
		DaysRemaining:     max(0, daysInMonth-daysElapsed),
		AverageDailySpend: averageDaily,
		ProjectedMonthly:  projected,
		SpendingVelocity:  averageDaily,
	}

	if lastTotal > 0 {
		report.MonthOverMonthChange = (currentTotal - lastTotal) / lastTotal * 100
	}
	if settings.MonthlyBudget > 0 {
		report.BudgetProgress = currentTotal / settings.MonthlyBudget * 100
		report.BudgetVelocity = settings.MonthlyBudget / float64(daysInMonth)
	}
	report.IsOverBudget = report.BudgetProgress >= 100
	report.IsNearBudget = report.BudgetProgress >= 90 && report.BudgetProgress < 100

	switch {
	case report.SpendingVelocity > report.BudgetVelocity:
		report.VelocityStatus = VelocityOver
	case report.SpendingVelocity > report.BudgetVelocity*0.9:
		report.VelocityStatus = VelocityWarning
	default:
		report.VelocityStatus = VelocityGood
	}

	if report.TopDay, err = a.topDay(ctx, monthStart, monthEnd); err != nil {
		return nil, err
	}
	if report.TopCategory, err = a.topCategory(ctx, monthStart, monthEnd); err != nil {
		return nil, err
	}

	report.Tips = buildTips(report, settings)
	return report, nil
}

func (a *Analyzer) topDay(ctx context.Context, start, end time.Time) (*DayTotal, error) {
	totals, err := a.storage.GetDailyTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily totals: %w", err)
	}
	if len(totals) == 0 {
		return nil, nil
	}

	days := make([]DayTotal, 0, len(totals))
	for day, amount := range totals {
		days = append(days, DayTotal{Date: day, Amount: amount})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Amount != days[j].Amount {
			return days[i].Amount > days[j].Amount
		}
		return days[i].Date < days[j].Date
	})
	top := days[0]
	return &top, nil
}

func (a *Analyzer) topCategory(ctx context.Context, start, end time.Time) (*CategoryTotal, error) {
	summary, err := a.storage.GetCategorySummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load category summary: %w", err)
	}
	if len(summary) == 0 {
		return nil, nil
	}

	categories := make([]CategoryTotal, 0, len(summary))
	for category, amount := range summary {
		categories = append(categories, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Category < categories[j].Category
	})
	top := categories[0]
	return &top, nil
}

func buildTips(report *Report, settings model.Settings) []string {
	var tips []string

	if report.BudgetProgress > 90 {
		tips = append(tips, "You've used over 90% of your budget. Consider reducing non-essential spending.")
	} else if report.BudgetProgress > 70 {
		tips = append(tips, "You're at 70% of your budget. Keep an eye on your spending.")
	}

	if report.MonthOverMonthChange > 20 {
		tips = append(tips, "Your spending increased significantly this month. Review your expenses.")
	} else if report.MonthOverMonthChange < -20 {
		tips = append(tips, "Great! You spent less this month. Keep it up!")
	}

	if settings.MonthlyBudget > 0 && report.ProjectedMonthly > settings.MonthlyBudget {
		tips = append(tips, fmt.Sprintf("At this rate, you'll exceed your budget by %s%.0f.",
			settings.Currency, report.ProjectedMonthly-settings.MonthlyBudget))
	}

	if report.TopCategory != nil && report.TopCategory.Amount > report.CurrentMonthTotal*0.4 {
		tips = append(tips, fmt.Sprintf("%s accounts for over 40%% of your spending. Consider reviewing this category.",
			report.TopCategory.Category))
	}

	if len(tips) == 0 {
		tips = []string{"Your spending looks good! Keep tracking your expenses."}
	}
	return tips
}

func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
