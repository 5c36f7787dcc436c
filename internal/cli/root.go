package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "obsgate",
	Short: "Capability-gated MCP gateway for observability APIs",
	Long:  "Exposes logs, metrics, monitors, dashboards and events to MCP clients.\nWrite operations are gated by a read-only default mode, confirmation-guarded\nfor irreversible actions, and recorded in a hash-chained audit log.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
