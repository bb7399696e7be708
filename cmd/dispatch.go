package cmd

import (
	"github.com/huangsam/perflog/core"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/runstore"
	"github.com/spf13/cobra"
)

// dispatchCmd reconstructs per-task dispatch cost and splits it into bands.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch [log-path]",
	Short: "Show the per-task dispatch cost and its tail.",
	Long: `Reconstruct the cost of every dispatched task from the sparse cumulative
counters of a performance log, then separate the typical tasks from the tail.

Each log row carries running totals sampled at irregular intervals. The cost
accumulated between two rows is spread evenly over the tasks dispatched in that
interval, and every task is then placed below or at-or-above the percentile.

The log path may be a directory holding the log file, the file itself, or an
s3://bucket/key or hdfs://namenode/path URL.

Examples:
  # Analyze ./performance with the default counters
  perflog dispatch

  # Use a different pair of counters and a 95th percentile cut
  perflog dispatch /var/log/manager --driver-field tasks_dispatched --cost-field time_send --percentile 95

  # Also render the three-panel chart next to the log
  perflog dispatch /var/log/manager --plot --name bwa

  # Export per-task costs for a notebook
  perflog dispatch --output csv --output-file dispatch.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDispatch(rootCtx, cfg, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run dispatch analysis", err)
		}
	},
}
