// Package cmd defines the command-line interface for gauge.
package cmd

import (
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(mayerCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output-dir", contract.DefaultOutputDir, "Directory for the written datasets")
	rootCmd.PersistentFlags().String("formats", "csv,json", "Comma-separated output formats: csv, json, parquet")
	rootCmd.PersistentFlags().Int("window", contract.DefaultWindow, "Moving average window length in days")
	rootCmd.PersistentFlags().Int("samples", contract.DefaultSamples, "Number of recent points compared with the vendor index")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress summaries and comparison tables")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql, or the sqlite file path")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	metricsCmd.Flags().String("output", "text", "Listing format: text or json or csv")
	if err := viper.BindPFlags(metricsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding metrics flags", err)
	}

	scheduleCmd.Flags().Bool("once", false, "Run every configured job once and exit")
	if err := viper.BindPFlags(scheduleCmd.Flags()); err != nil {
		contract.LogFatal("Error binding schedule flags", err)
	}

	historyExportCmd.Flags().String("output-file", "", "Path prefix for the exported Parquet files")
	if err := viper.BindPFlags(historyExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history export flags", err)
	}

	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
