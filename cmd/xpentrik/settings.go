package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		RunE:  runSettingsShow,
	}

	cmd.AddCommand(settingsSetCmd())

	return cmd
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
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

	fmt.Println(cli.FormatTitle("Settings"))                                         //nolint:forbidigo // User-facing output
	fmt.Printf("  Currency:        %s\n", settings.Currency)                         //nolint:forbidigo // User-facing output
	fmt.Printf("  Monthly budget:  %s%.0f\n", settings.Currency, settings.MonthlyBudget) //nolint:forbidigo // User-facing output
	fmt.Printf("  Auto scan:       %t\n", settings.AutoScan)                         //nolint:forbidigo // User-facing output
	return nil
}

func settingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		RunE:  runSettingsSet,
	}

	cmd.Flags().Float64("budget", -1, "monthly budget")
	cmd.Flags().String("currency", "", "currency symbol")
	cmd.Flags().Bool("auto-scan", true, "drain pending captures before bulk scans")

	return cmd
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
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

	changed := false
	if cmd.Flags().Changed("budget") {
		budget, _ := cmd.Flags().GetFloat64("budget")
		if budget < 0 {
			return fmt.Errorf("budget must not be negative")
		}
		settings.MonthlyBudget = budget
		changed = true
	}
	if cmd.Flags().Changed("currency") {
		currency, _ := cmd.Flags().GetString("currency")
		if currency == "" {
			return fmt.Errorf("currency must not be empty")
		}
		settings.Currency = currency
		changed = true
	}
	if cmd.Flags().Changed("auto-scan") {
		settings.AutoScan, _ = cmd.Flags().GetBool("auto-scan")
		changed = true
	}

	if !changed {
		fmt.Println(cli.FormatInfo("Nothing to change. Pass --budget, --currency, or --auto-scan.")) //nolint:forbidigo // User-facing output
		return nil
	}

	if err := store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Settings saved.")) //nolint:forbidigo // User-facing output
	return nil
}
