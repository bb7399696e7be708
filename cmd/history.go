package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/outwriter"
	"github.com/huangsam/perflog/internal/runstore"
	"github.com/huangsam/perflog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveHistoryBackend loads the config file and fills the history fields of cfg
// without touching the database.
func resolveHistoryBackend() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	return nil
}

// historySetup uses minimal initialization: the history commands never read a
// log, so only the backend settings are validated before the store opens.
func historySetup() error {
	if err := resolveHistoryBackend(); err != nil {
		return err
	}
	if err := runstore.InitStore(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyResolveWrapper provides PreRunE for commands that manage the database
// themselves, like clear and migrate.
func historyResolveWrapper(_ *cobra.Command, _ []string) error {
	return resolveHistoryBackend()
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of analysis runs",
	Long: `Manage the record of past dispatch and workers runs.

When a history backend is configured, every analysis stores:
- Run metadata (kind, source log, timestamps, configuration, duration)
- Per-task dispatch cost with its band
- Worker states at each task completion

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export runs and task costs to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Record runs in ~/.perflog_history.db
  perflog dispatch --history-backend sqlite

  # Check what has been recorded
  perflog history status --history-backend sqlite`,
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and connection details",
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("run history is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.WriteHistoryStatus(os.Stdout, status, cfg); err != nil {
			contract.LogFatal("Failed to print history status", err)
		}
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics tools",
	Long: `Export all recorded runs and per-task costs to Parquet.

Requires: --output-file parameter. Two files are written next to it:
<name>.runs.parquet and <name>.unit_costs.parquet.

Examples:
  perflog history export --history-backend sqlite --output-file history.parquet
  duckdb -c "SELECT band, avg(value) FROM read_parquet('history.unit_costs.parquet') GROUP BY band"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExportHistory(os.Stdout, runstore.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded run history",
	Long: `Delete all stored runs, task costs and worker states.

For SQLite the database file is removed. For MySQL and PostgreSQL the history
tables are dropped. This action cannot be undone; consider exporting first.`,
	PreRunE: historyResolveWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := ""
		if cfg.HistoryBackend == schema.SQLiteBackend {
			dbFilePath = cfg.HistoryDBConnect
		}
		if err := runstore.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the run history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  perflog history migrate --history-backend postgresql --history-db-connect "host=db dbname=perflog"

  # Rollback to the initial state
  perflog history migrate --target-version 0`,
	PreRunE: historyResolveWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
