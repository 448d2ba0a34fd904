package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/config"
	"github.com/Veraticus/xpentrik/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV",
		Long: `Write the full expense history as a CSV file for spreadsheets.

Columns: Date, Description, Category, Amount, Type, Source.`,
		RunE: runExport,
	}

	cmd.Flags().String("out", "", "output directory (default: the data directory)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dir, err := resolveOutputDir(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	path, err := export.NewExporter(store).ExportCSVFile(ctx, dir, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess("Exported to " + path)) //nolint:forbidigo // User-facing output
	return nil
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a full JSON backup",
		Long:  `Snapshot every expense and your settings into a JSON file that 'xpentrik restore' can load later.`,
		RunE:  runBackup,
	}

	cmd.Flags().String("out", "", "output directory (default: the data directory)")

	return cmd
}

func runBackup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dir, err := resolveOutputDir(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	path, err := export.NewExporter(store).WriteBackupFile(ctx, dir, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess("Backup written to " + path)) //nolint:forbidigo // User-facing output
	return nil
}

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <backup.json>",
		Short: "Restore expenses from a backup file",
		Long: `Replace the current expense history and settings with the contents of a
backup file. This deletes whatever is currently recorded; take a fresh
backup first if in doubt.`,
		Args: cobra.ExactArgs(1),
		RunE: runRestore,
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	data, err := os.ReadFile(config.ExpandPath(args[0]))
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	if !skipConfirm {
		fmt.Println(cli.FormatWarning("This replaces all current expenses and settings.")) //nolint:forbidigo // User-facing output
		fmt.Print("Type 'yes' to continue: ")                                              //nolint:forbidigo // User-facing output

		reader := cli.NewNonBlockingReader(os.Stdin)
		answer, err := reader.ReadLine(ctx)
		if err != nil {
			return err
		}
		if answer != "yes" {
			fmt.Println(cli.FormatInfo("Restore canceled.")) //nolint:forbidigo // User-facing output
			return nil
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	restored, err := export.NewExporter(store).Restore(ctx, data)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Restored %d expenses.", restored))) //nolint:forbidigo // User-facing output
	return nil
}

func resolveOutputDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("out")
	if dir != "" {
		return config.ExpandPath(dir), nil
	}

	dir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}
