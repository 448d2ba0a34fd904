package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
)

func pasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Paste a bank SMS to record it",
		Long: `Paste the text of a bank SMS and xpentrik will extract the transaction.

End the message with a blank line. Multi-line messages are joined before
parsing, so wrapped text pastes fine.`,
		RunE: runPaste,
	}

	cmd.Flags().String("sender", "", "sender ID to attribute the message to (e.g. HDFCBK)")

	return cmd
}

func runPaste(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sender, _ := cmd.Flags().GetString("sender")

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

	fmt.Println(cli.FormatTitle("Paste message")) //nolint:forbidigo // User-facing output
	fmt.Println(cli.SubtitleStyle.Render("Paste the SMS text, then press Enter on an empty line:")) //nolint:forbidigo // User-facing output

	reader := cli.NewNonBlockingReader(os.Stdin)
	body, err := reader.ReadMessageBlock(ctx)
	if err != nil {
		return err
	}
	if body == "" {
		fmt.Println(cli.FormatWarning("Nothing pasted.")) //nolint:forbidigo // User-facing output
		return nil
	}

	result, err := pipeline.IngestManual(ctx, body, sender)
	if err != nil {
		return err
	}

	switch {
	case result.AlreadyProcessed:
		fmt.Println(cli.FormatInfo("That message was already recorded.")) //nolint:forbidigo // User-facing output
	case result.Created:
		fmt.Println(cli.FormatSuccess("Transaction recorded:")) //nolint:forbidigo // User-facing output
		printExpenseLine(*result.Expense, settings.Currency)
		fmt.Printf("  %s\n", cli.SubtleStyle.Render(
			fmt.Sprintf("confidence %d, id %s", result.Parsed.Confidence, result.Expense.ID))) //nolint:forbidigo // User-facing output
	default:
		fmt.Println(cli.FormatWarning("That doesn't look like a transaction message.")) //nolint:forbidigo // User-facing output
		if result.Parsed.Confidence > 0 {
			fmt.Printf("  %s\n", cli.SubtleStyle.Render(
				fmt.Sprintf("confidence %d, below the acceptance threshold", result.Parsed.Confidence))) //nolint:forbidigo // User-facing output
		}
		fmt.Println(cli.FormatInfo("Use 'xpentrik expenses add' to record it manually.")) //nolint:forbidigo // User-facing output
	}

	return nil
}
