package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/config"
	"github.com/Veraticus/xpentrik/internal/service"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show source, database, and queue status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	src := initSource()
	status := src.Status(ctx)

	pending, err := src.PendingMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending queue: %w", err)
	}

	fingerprints, err := store.LoadProcessedFingerprints(ctx)
	if err != nil {
		return fmt.Errorf("failed to load processed fingerprints: %w", err)
	}

	expenses, err := store.ListExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	dbPath, err := config.DatabasePath()
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SMS source:          %s\n", renderSourceStatus(status))
	fmt.Fprintf(&b, "Pending captures:    %d\n", len(pending))
	fmt.Fprintf(&b, "Recorded expenses:   %d\n", len(expenses))
	fmt.Fprintf(&b, "Processed messages:  %d\n", len(fingerprints))
	fmt.Fprintf(&b, "Database:            %s", dbPath)

	fmt.Println(cli.RenderBox(cli.InboxIcon+" Status", b.String())) //nolint:forbidigo // User-facing output
	return nil
}

func renderSourceStatus(status service.SourceStatus) string {
	switch {
	case !status.Supported:
		return cli.ErrorStyle.Render(status.Message)
	case !status.PermissionGranted:
		return cli.WarningStyle.Render(status.Message)
	default:
		return cli.SuccessStyle.Render(status.Message)
	}
}
