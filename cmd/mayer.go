package cmd

import (
	"github.com/onchainlab/gauge/core"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
	"github.com/spf13/cobra"
)

// mayerCmd recomputes the 200-day SMA and Mayer Multiple from a price snapshot.
var mayerCmd = &cobra.Command{
	Use:   "mayer <input.json>",
	Short: "Recompute the 200-day SMA and Mayer Multiple from daily prices.",
	Long: `Read a JSON array of {timestamp, price, index} points and recompute the
moving average and Mayer Multiple of every point.

Writes to --output-dir:
- corrected-mayer-multiple.{csv,json} with every point
- simplified-mayer-multiple.{csv,json} with only complete windows

Points before a full window average the points seen so far and are marked
incomplete. The last --samples complete points are compared with the vendor
index.

Examples:
  # Default 200-day window
  gauge mayer btc-mayer.json

  # Shorter window, Parquet too, into ./out
  gauge mayer btc-mayer.json --window 50 --formats csv,json,parquet --output-dir out`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(string(schema.MayerMetric), args[0])
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMayer(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot compute Mayer Multiple", err)
		}
	},
}
