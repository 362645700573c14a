package cmd

import (
	"github.com/onchainlab/gauge/core"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/spf13/cobra"
)

// convertCmd flattens one indicator snapshot into readable rows.
var convertCmd = &cobra.Command{
	Use:   "convert <metric> <input.json>",
	Short: "Flatten a vendor indicator snapshot into readable columns.",
	Long: `Convert a JSON snapshot of one indicator family into rows with a
calendar date and fixed-precision values.

Writes <metric>-data-readable.{csv,json,parquet} per --formats. Records
without a usable date are skipped and counted. Run 'gauge metrics' for the
supported families and their columns.

Examples:
  # Puell Multiple to CSV and JSON
  gauge convert puell puell.json

  # Rainbow bands to Parquet only
  gauge convert rainbow rainbow.json --formats parquet

  # Keep history in SQLite
  gauge convert nupl nupl.json --history-backend sqlite`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(args[0], args[1])
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteConvert(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot convert snapshot", err)
		}
	},
}
