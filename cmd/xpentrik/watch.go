package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/common"
	"github.com/Veraticus/xpentrik/internal/engine"
	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/Veraticus/xpentrik/internal/service"
	"github.com/Veraticus/xpentrik/internal/source"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox and record transactions as they arrive",
		Long: `Poll the SMS inbox export and the background capture queue, recording new
transactions as they appear. Runs until interrupted.`,
		RunE: runWatch,
	}

	cmd.Flags().Duration("interval", 30*time.Second, "poll interval")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	interval, _ := cmd.Flags().GetDuration("interval")

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
	if !status.Supported {
		return fmt.Errorf("%w: %s", common.ErrSourceUnavailable, status.Message)
	}

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, true)

	fmt.Println(cli.FormatTitle("Watching for transactions")) //nolint:forbidigo // User-facing output
	fmt.Println(cli.SubtitleStyle.Render(status.Message))     //nolint:forbidigo // User-facing output

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Only messages newer than the watch start are interesting; the ledger
	// still guards against anything seen twice.
	since := time.Now().AddDate(0, 0, -1)

	for {
		if err := pollOnce(ctx, pipeline, src, since, settings.Currency); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Println(cli.FormatWarning(err.Error())) //nolint:forbidigo // User-facing output
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func pollOnce(ctx context.Context, pipeline *engine.Pipeline, src *source.FileSource, since time.Time, currency string) error {
	drained, err := pipeline.DrainPending(ctx, src)
	if err != nil {
		return err
	}

	// Sync tools rewrite the inbox export in place, so a poll can catch a
	// half-written file. Retry briefly before reporting the failure.
	var messages []model.RawMessage
	err = common.WithRetry(ctx, func() error {
		var readErr error
		messages, readErr = src.ReadMessages(ctx, service.ReadOptions{Since: since})
		return readErr
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond, MaxDelay: time.Second})
	if err != nil {
		return err
	}

	var scanned *engine.BatchResult
	if len(messages) > 0 {
		if scanned, err = pipeline.Ingest(ctx, messages); err != nil {
			return err
		}
	}

	for _, expense := range mergeResults(drained, scanned).Created {
		printExpenseLine(expense, currency)
	}
	return nil
}
