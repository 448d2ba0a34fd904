package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpentrik/internal/cli"
	"github.com/Veraticus/xpentrik/internal/common"
	"github.com/Veraticus/xpentrik/internal/model"
)

func captureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Queue an incoming SMS for the next scan",
		Long: `Append a message to the background capture queue without processing it.

Intended for automation hooks (an SMS forwarder, a sync script): the queue is
drained by 'scan' and 'watch'. Reads the message body from stdin when --body
is not given. The queue holds the most recent 50 messages.`,
		RunE: runCapture,
	}

	cmd.Flags().String("sender", "", "sender ID (e.g. HDFCBK)")
	cmd.Flags().String("body", "", "message text (default: read from stdin)")

	return cmd
}

func runCapture(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sender, _ := cmd.Flags().GetString("sender")
	body, _ := cmd.Flags().GetString("body")

	if body == "" {
		reader := cli.NewNonBlockingReader(os.Stdin)
		var err error
		if body, err = reader.ReadMessageBlock(ctx); err != nil {
			return err
		}
	}
	if body == "" {
		return fmt.Errorf("no message body given")
	}

	src := initSource()
	if status := src.Status(ctx); !status.Supported {
		return fmt.Errorf("%w: %s", common.ErrSourceUnavailable, status.Message)
	}
	if err := src.CapturePending(ctx, model.RawMessage{
		ReceivedAt: time.Now(),
		Body:       body,
		Sender:     sender,
	}); err != nil {
		return fmt.Errorf("failed to queue message: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Message queued; it will be processed on the next scan.")) //nolint:forbidigo // User-facing output
	return nil
}
