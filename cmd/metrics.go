package cmd

import (
	"os"

	"github.com/onchainlab/gauge/core"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// metricsCmd lists the supported indicator families.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List supported indicator families, their columns and output names",
	Long: `Show every indicator family gauge can convert.

For each family:
- Name used by 'gauge convert'
- Short description
- Output columns in order
- Base name of the written files

No snapshot is read - this is purely informational.

Examples:
  # Human readable table
  gauge metrics

  # Machine readable listing
  gauge metrics --output json`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintMetricInfos(os.Stdout, core.MetricInfos(), viper.GetString("output")); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
