package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/engine"
	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
)

const scanChunkSize = 25

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the SMS inbox for new transactions",
		Long: `Read the configured SMS inbox export, extract transactions from bank
messages, and record any that haven't been seen before.

Messages already processed are skipped, so scanning repeatedly is safe.`,
		RunE: runScan,
	}

	cmd.Flags().Int("days", 30, "how many days of messages to scan")
	cmd.Flags().Int("limit", 0, "maximum number of messages to read (0 = all)")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	days, _ := cmd.Flags().GetInt("days")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	pipeline, err := initPipeline(ctx, store)
	if err != nil {
		return err
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	src := initSource()
	status := src.Status(ctx)
	if !status.Supported || !status.PermissionGranted {
		fmt.Println(cli.FormatWarning(status.Message)) //nolint:forbidigo // User-facing output
		fmt.Println(cli.FormatInfo("Use 'xpentrik paste' to add messages manually.")) //nolint:forbidigo // User-facing output
		return nil
	}

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, false)

	// Live captures first, then the bulk read.
	var drained *engine.BatchResult
	if settings.AutoScan {
		if drained, err = pipeline.DrainPending(ctx, src); err != nil {
			return err
		}
	}

	messages, err := src.ReadMessages(ctx, service.ReadOptions{
		Since:    time.Now().AddDate(0, 0, -days),
		MaxCount: limit,
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Scanning messages")) //nolint:forbidigo // User-facing output

	total := mergeResults(drained)
	if len(messages) > 0 {
		bar := newScanProgressBar(len(messages))
		for start := 0; start < len(messages); start += scanChunkSize {
			if ctx.Err() != nil {
				break
			}
			end := min(start+scanChunkSize, len(messages))
			result, err := pipeline.Ingest(ctx, messages[start:end])
			if result != nil {
				total = mergeResults(total, result)
			}
			if err != nil {
				return err
			}
			_ = bar.Add(end - start)
		}
		_ = bar.Finish()
	}

	printScanSummary(total, settings.Currency)
	return nil
}

func newScanProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Extracting transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(os.Stdout); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func mergeResults(results ...*engine.BatchResult) *engine.BatchResult {
	total := &engine.BatchResult{}
	for _, r := range results {
		if r == nil {
			continue
		}
		total.Scanned += r.Scanned
		total.AlreadyProcessed += r.AlreadyProcessed
		total.Created = append(total.Created, r.Created...)
		total.Failures = append(total.Failures, r.Failures...)
	}
	return total
}

func printScanSummary(result *engine.BatchResult, currency string) {
	fmt.Println() //nolint:forbidigo // User-facing output
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Scanned %d messages: %d new, %d already recorded",
		result.Scanned, len(result.Created), result.AlreadyProcessed))) //nolint:forbidigo // User-facing output

	for _, expense := range result.Created {
		printExpenseLine(expense, currency)
	}

	if len(result.Failures) > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"%d messages could not be saved and will be retried on the next scan",
			len(result.Failures)))) //nolint:forbidigo // User-facing output
	}
}

func printExpenseLine(expense model.Expense, currency string) {
	fmt.Printf("  %s  %s  %s\n", //nolint:forbidigo // User-facing output
		cli.FormatAmount(currency, expense.Amount, expense.IsIncome),
		cli.FormatCategory(expense.Category),
		cli.SubtleStyle.Render(expense.Description),
	)
}
