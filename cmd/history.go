package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/history"
	"github.com/onchainlab/gauge/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig loads the backend settings shared by all history subcommands.
func historyBackendConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := strings.ToLower(strings.TrimSpace(viper.GetString("history-backend")))
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historySetup loads minimal configuration and opens the history store.
// This avoids snapshot validation for simple history operations.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := historyBackendConfig(); err != nil {
		return err
	}
	if err := history.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyMigrateSetup loads the backend settings without opening the store,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := historyBackendConfig(); err != nil {
		return err
	}
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect == "" {
		cfg.HistoryDBConnect = history.GetDBFilePath()
	}
	return nil
}

// historySQLitePath returns the SQLite file the history store uses.
func historySQLitePath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return history.GetDBFilePath()
}

// historyCmd focused on history data management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the stored conversion history",
	Long: `Manage the conversion runs and metric rows kept across runs.

When a history backend is set, every conversion stores:
- Run metadata (metric, source file, timestamps, row counts)
- Rows dated after the newest stored row of that metric

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Check history status
  gauge history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  gauge history export --history-backend sqlite --output-file gauge-history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, run counts, stored rows and the newest date per metric.

Examples:
  gauge history status --history-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := history.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored history data",
	Long: `Delete all stored runs and metric rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  gauge history export --history-backend sqlite --output-file backup
  gauge history clear --history-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historyBackendConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, historySQLitePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored history to Parquet for BI tools and analytics",
	Long: `Export all stored history to two Parquet files:
- <output-file>.runs.parquet with one row per conversion run
- <output-file>.rows.parquet with one row per stored cell

Requires: --output-file parameter

Examples:
  gauge history export --history-backend sqlite --output-file gauge-history
  duckdb -c "SELECT * FROM read_parquet('gauge-history.rows.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExportHistory(os.Stdout, history.Manager.GetHistoryStore(), viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gauge history migrate --history-backend sqlite

  # Rollback to initial state
  gauge history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
