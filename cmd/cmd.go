// Package cmd defines the command-line interface for perflog.
package cmd

import (
	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("log-file", contract.DefaultLogFile, "Log file name used when the log path is a directory")
	rootCmd.PersistentFlags().String("marker", contract.DefaultMarker, "Prefix that marks the header line")
	rootCmd.PersistentFlags().Int("lookahead", contract.DefaultLookahead, "Number of lines searched for the header")
	rootCmd.PersistentFlags().String("policy", string(schema.RejectPolicy), "Handling of decreasing counters: reject or clamp")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display (0 = all)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Bool("detail", false, "Print every unit instead of the band summary")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("plot", false, "Render a PNG chart of dispatch or workers results")
	rootCmd.PersistentFlags().String("plot-file", "", "Chart path (defaults to a name derived from the result, next to the log)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for the run history (file path for sqlite)")
	rootCmd.PersistentFlags().String("hdfs-user", contract.DefaultHDFSUser, "User name for hdfs:// log locations")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in progress lines (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of dispatchCmd to Viper
	dispatchCmd.Flags().String("driver-field", contract.DefaultDispatchDriver, "Cumulative counter that defines the units")
	dispatchCmd.Flags().String("cost-field", contract.DefaultDispatchCost, "Cumulative counter attributed to the units")
	dispatchCmd.Flags().Float64("percentile", contract.DefaultPercentile, "Percentile separating typical units from the tail")
	dispatchCmd.Flags().String("name", contract.DefaultTaskName, "Task name used in chart titles and file names")
	if err := viper.BindPFlags(dispatchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dispatch flags", err)
	}

	// Bind all flags of workersCmd to Viper
	workersCmd.Flags().String("progress-field", contract.DefaultProgressField, "Cumulative counter that tracks task completion")
	workersCmd.Flags().String("state-fields", contract.DefaultStateFields, "Comma-separated state fields to carry per task")
	if err := viper.BindPFlags(workersCmd.Flags()); err != nil {
		contract.LogFatal("Error binding workers flags", err)
	}

	// Bind all flags of convertCmd to Viper
	convertCmd.Flags().String("format", string(schema.XLSXSheet), "Spreadsheet format: xlsx or csv")
	if err := viper.BindPFlags(convertCmd.Flags()); err != nil {
		contract.LogFatal("Error binding convert flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
