package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCmd создаёт команду вывода состояния relay.
func NewStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show relay counters and connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			headers := []string{"SIDE", "CONNECTED", "STATE", "COUNT", "FAILURES", "LAST"}
			rows := [][]string{
				{
					"sqs",
					strconv.FormatBool(status.Source.Connected),
					"-",
					strconv.FormatInt(status.Source.Received, 10),
					strconv.FormatInt(status.Source.AckFailures+status.Source.ReceiveErrors, 10),
					orDash(status.Source.LastReceivedAt),
				},
				{
					"rabbitmq",
					strconv.FormatBool(status.Sink.Connected),
					status.Sink.State,
					strconv.FormatInt(status.Sink.Published, 10),
					strconv.FormatInt(status.Sink.PublishFailures, 10),
					orDash(status.Sink.LastSentAt),
				},
			}

			out.Print(headers, rows, status)

			if !out.jsonMode {
				out.Success(fmt.Sprintf("relay %s: %d processed, %d pending, %d dropped, %d rejected, up %s",
					status.RelayID,
					status.MessagesProcessed,
					status.Pending,
					status.Dropped,
					status.Rejected,
					time.Duration(status.UptimeSeconds)*time.Second,
				))
			}
			return nil
		},
	}
}

// NewHealthCmd создаёт команду проверки liveness и readiness.
// Завершается с ErrNotReady, если relay не готов.
func NewHealthCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check relay liveness and readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			headers := []string{"LIVE", "READY", "REASON"}
			rows := [][]string{{
				strconv.FormatBool(health.Live),
				strconv.FormatBool(health.Ready),
				orDash(health.Reason),
			}}

			out.Print(headers, rows, health)

			if !health.Ready {
				return fmt.Errorf("%w: %s", ErrNotReady, health.Reason)
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
