package cmd

import (
	"github.com/huangsam/perflog/core"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/spf13/cobra"
)

// convertCmd writes the parsed log rows as a spreadsheet.
var convertCmd = &cobra.Command{
	Use:   "convert [log-path]",
	Short: "Convert a performance log into a spreadsheet.",
	Long: `Write every data row of a performance log as a spreadsheet, with the header
fields as columns and the source line number as the last column.

Without --output-file the spreadsheet is written next to the log as
performance.xlsx or performance.csv.

Examples:
  perflog convert /var/log/manager
  perflog convert --format csv --output-file rows.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteConvert(rootCtx, cfg, nil); err != nil {
			contract.LogFatal("Cannot convert log", err)
		}
	},
}

// headerCmd lists the fields of a log header.
var headerCmd = &cobra.Command{
	Use:   "header [log-path]",
	Short: "List the fields named on the header line of a log.",
	Long: `Locate the header line of a performance log and print its fields with their
column positions. Useful for choosing --driver-field and --cost-field values.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHeader(rootCtx, cfg, nil); err != nil {
			contract.LogFatal("Cannot read log header", err)
		}
	},
}
