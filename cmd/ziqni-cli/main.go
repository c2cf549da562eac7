// ZIQNI CLI — инструмент командной строки для проверки состояния relay
// через HTTP API статуса.
//
// Использование:
//
//	ziqni-cli [--api-url URL] [--json] <command>
//
// Команды:
//
//	status  Счётчики и состояние соединений
//	health  Liveness и readiness (код выхода 1, если relay не готов)
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ziqni-tech/ziqni-publisher-sqs-ampq/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "ziqni-cli",
		Short:         "ZIQNI CLI — SQS to RabbitMQ relay status tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := "http://localhost:3000"
	if v := os.Getenv("RELAY_API_URL"); v != "" {
		defaultURL = v
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "Relay status API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewStatusCmd(clientFn, outputFn),
		cli.NewHealthCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		outputFn().Error(err.Error())
		os.Exit(1)
	}
}
