package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List, add, and delete expenses",
	}

	cmd.AddCommand(expensesListCmd())
	cmd.AddCommand(expensesAddCmd())
	cmd.AddCommand(expensesDeleteCmd())

	return cmd
}

func expensesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded expenses, newest first",
		RunE:  runExpensesList,
	}

	cmd.Flags().Int("limit", 20, "maximum number of expenses to show (0 = all)")
	cmd.Flags().String("category", "", "only show this category")
	cmd.Flags().String("month", "", "only show this month (YYYY-MM)")
	cmd.Flags().Bool("no-income", false, "exclude income records")

	return cmd
}

func runExpensesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit, _ := cmd.Flags().GetInt("limit")
	category, _ := cmd.Flags().GetString("category")
	month, _ := cmd.Flags().GetString("month")
	noIncome, _ := cmd.Flags().GetBool("no-income")

	filter := service.ExpenseFilter{Limit: limit, ExcludeIncome: noIncome}

	if category != "" {
		id := model.CategoryID(strings.ToLower(category))
		if !model.ValidCategory(id) {
			return fmt.Errorf("unknown category: %s", category)
		}
		filter.Category = id
	}

	if month != "" {
		start, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
		}
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		filter.StartDate = &start
		filter.EndDate = &end
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if len(expenses) == 0 {
		fmt.Println(cli.InfoStyle.Render("No expenses found. Use 'xpentrik scan' or 'xpentrik paste' to add some.")) //nolint:forbidigo // User-facing output
		return nil
	}

	fmt.Println(cli.FormatTitle("Expenses")) //nolint:forbidigo // User-facing output
	fmt.Println()                            //nolint:forbidigo // User-facing output

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Amount"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Description"),
		cli.TableHeaderStyle.Render("Source"),
		cli.TableHeaderStyle.Render("ID"))

	for _, expense := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			expense.OccurredAt.Format("2006-01-02"),
			cli.FormatAmount(settings.Currency, expense.Amount, expense.IsIncome),
			cli.FormatCategory(expense.Category),
			expense.Description,
			string(expense.Source),
			cli.SubtleStyle.Render(expense.ID))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}

func expensesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense manually",
		RunE:  runExpensesAdd,
	}

	cmd.Flags().Float64("amount", 0, "expense amount (required)")
	cmd.Flags().String("category", string(model.CategoryOther), "expense category")
	cmd.Flags().String("description", "", "what the expense was for")
	cmd.Flags().String("date", "", "when it happened (YYYY-MM-DD, default today)")
	cmd.Flags().Bool("income", false, "record as income instead of an expense")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runExpensesAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	amount, _ := cmd.Flags().GetFloat64("amount")
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	dateStr, _ := cmd.Flags().GetString("date")
	isIncome, _ := cmd.Flags().GetBool("income")

	id := model.CategoryID(strings.ToLower(category))
	if !model.ValidCategory(id) {
		return fmt.Errorf("unknown category: %s", category)
	}
	if isIncome {
		id = model.CategoryIncome
	}

	occurredAt := time.Now()
	if dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
		}
		occurredAt = parsed
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	saved, err := store.AppendExpense(ctx, &model.Expense{
		Amount:      amount,
		Category:    id,
		Description: description,
		OccurredAt:  occurredAt,
		Source:      model.SourceManual,
		IsIncome:    isIncome,
	})
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Expense recorded:")) //nolint:forbidigo // User-facing output
	printExpenseLine(*saved, settings.Currency)
	return nil
}

func expensesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			if err := store.DeleteExpense(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Expense deleted.")) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
