package cmd

import (
	"github.com/huangsam/perflog/core"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/runstore"
	"github.com/spf13/cobra"
)

// workersCmd rebuilds the worker states at every unit of task progress.
var workersCmd = &cobra.Command{
	Use:   "workers [log-path]",
	Short: "Show the worker states at every completed task.",
	Long: `Rebuild the worker state in effect when each task completed.

The progress counter only advances at sampled rows, so the state reported for a
task is the one carried by the last row at or before it. Gaps in the counter are
filled with the previous state.

Examples:
  # Worker states from ./performance
  perflog workers

  # Track only connected and busy workers
  perflog workers --state-fields workers_connected,workers_busy

  # Render the line chart as <tasks>tasks_<workers>workers.png
  perflog workers /var/log/manager --plot`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWorkers(rootCtx, cfg, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run worker analysis", err)
		}
	},
}
