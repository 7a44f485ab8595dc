package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/internal/iocache"
	"github.com/huangsam/qapulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackend reads the history backend settings, treating an empty backend as disabled.
func historyBackend() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}

	// No document caching for history commands
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup does NOT initialize stores or create tables, so that
// migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on import history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the import history of transformed workbooks",
	Long: `Manage the record of every workbook transform.

When enabled with --history-backend, every transform that reads a workbook stores:
- Run metadata (source file, start and end time, data source)
- A snapshot of every sprint point of the resulting document

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show import history statistics
  export  - Export runs and sprint snapshots to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations`,
}

// historyClearCmd clears the import history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded import runs and sprint snapshots",
	Long: `Delete every recorded import run and sprint snapshot.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  qapulse history export --output-file backup
  qapulse history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear import history", err)
		}
		fmt.Println("Import history cleared successfully.")
	},
}

// historyStatusCmd shows import history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display import history statistics and connection details",
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get import history status", errors.New("history tracking is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get import history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports the import history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export import runs and sprint snapshots to Parquet",
	Long: `Export the import history to two Parquet files for BI tools:
<output-file>.import_runs.parquet and <output-file>.sprint_snapshots.parquet.

Requires: --output-file parameter

Examples:
  qapulse history export --output-file qa-history
  duckdb -c "SELECT * FROM read_parquet('qa-history.sprint_snapshots.parquet')"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export import history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the import history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  qapulse history migrate --history-backend sqlite
  qapulse history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
