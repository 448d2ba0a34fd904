package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/insights"
	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show this month's spending report",
		Long: `Summarize the current month: totals, budget progress, spending by category,
and projections based on your pace so far.`,
		RunE: runReport,
	}
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	now := time.Now()
	report, err := insights.NewAnalyzer(store).MonthlyReport(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	cur := settings.Currency
	var b strings.Builder

	fmt.Fprintf(&b, "Spent this month:  %s%.2f\n", cur, report.CurrentMonthTotal)
	fmt.Fprintf(&b, "Last month:        %s%.2f", cur, report.LastMonthTotal)
	if report.LastMonthTotal > 0 {
		fmt.Fprintf(&b, "  (%+.1f%%)", report.MonthOverMonthChange)
	}
	b.WriteString("\n")

	if settings.MonthlyBudget > 0 {
		fmt.Fprintf(&b, "Budget:            %s of %s%.0f used\n",
			renderBudgetProgress(report), cur, settings.MonthlyBudget)
	}
	fmt.Fprintf(&b, "Daily average:     %s%.2f\n", cur, report.AverageDailySpend)
	fmt.Fprintf(&b, "Projected month:   %s%.2f  (%d days left)\n",
		cur, report.ProjectedMonthly, report.DaysRemaining)

	if report.TopCategory != nil {
		fmt.Fprintf(&b, "Top category:      %s  %s%.2f\n",
			cli.FormatCategory(report.TopCategory.Category), cur, report.TopCategory.Amount)
	}
	if report.TopDay != nil {
		fmt.Fprintf(&b, "Biggest day:       %s  %s%.2f\n",
			report.TopDay.Date, cur, report.TopDay.Amount)
	}

	fmt.Println(cli.RenderBox(cli.ChartIcon+" "+now.Format("January 2006"), strings.TrimRight(b.String(), "\n"))) //nolint:forbidigo // User-facing output

	if err := printCategoryBreakdown(cmd, store, cur, now); err != nil {
		return err
	}

	fmt.Println() //nolint:forbidigo // User-facing output
	for _, tip := range report.Tips {
		fmt.Println(cli.FormatInfo(tip)) //nolint:forbidigo // User-facing output
	}

	return nil
}

func renderBudgetProgress(report *insights.Report) string {
	text := fmt.Sprintf("%.0f%%", report.BudgetProgress)
	switch {
	case report.IsOverBudget:
		return cli.ErrorStyle.Render(text)
	case report.IsNearBudget, report.VelocityStatus == insights.VelocityWarning:
		return cli.WarningStyle.Render(text)
	default:
		return cli.SuccessStyle.Render(text)
	}
}

func printCategoryBreakdown(cmd *cobra.Command, store service.Storage, currency string, now time.Time) error {
	ctx := cmd.Context()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	summary, err := store.GetCategorySummary(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to load category summary: %w", err)
	}
	if len(summary) == 0 {
		return nil
	}

	type row struct {
		category model.CategoryID
		amount   float64
	}
	rows := make([]row, 0, len(summary))
	for category, amount := range summary {
		rows = append(rows, row{category: category, amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].amount > rows[j].amount })

	fmt.Println()                                          //nolint:forbidigo // User-facing output
	fmt.Println(cli.BoldStyle.Render("By category:"))      //nolint:forbidigo // User-facing output
	for _, r := range rows {
		fmt.Printf("  %-24s %s%.2f\n", cli.FormatCategory(r.category), currency, r.amount) //nolint:forbidigo // User-facing output
	}
	return nil
}
