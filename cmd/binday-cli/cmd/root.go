package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"binday-backend/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var logPath string

var rootCmd = &cobra.Command{
	Use:   "binday-cli",
	Short: "binday-cli resolves council waste-collection dates for an address.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// telemetry is optional for the CLI: without a
		// telemetry.json5 the no-op otel providers stay in place
		_, err := telemetry.SetupFromEnv(cmd.Context(), "binday-cli")
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to set up telemetry", "err", err)
			return
		}
		if err == nil {
			telemetry.InstrumentPerfStats(cmd.Context())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logPath, "log", "binday-history.db",
		"path of the local resolution history database",
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
