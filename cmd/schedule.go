package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/onchainlab/gauge/core"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/schedule"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scheduleCmd re-runs the configured jobs on their cron triggers.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-run configured conversions on cron triggers",
	Long: `Run the jobs listed under 'jobs:' in .gauge.yaml until interrupted.

Each job names a metric, an input snapshot, an optional output directory
and a standard five-field cron expression or descriptor:

  jobs:
    - name: nupl-daily
      metric: nupl
      input: data/nupl.json
      output_dir: out/nupl
      cron: "@daily"

Failed runs are logged and the schedule keeps going. Stop with Ctrl-C.

Examples:
  # Serve the schedule
  gauge schedule

  # Run every job once, e.g. from an external cron
  gauge schedule --once`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return sharedSetup("", "")
	},
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := schedule.NewScheduler(ctx, cfg.Jobs, func(ctx context.Context, job contract.Job) error {
			return core.ExecuteJob(ctx, cfg, historyManager, job)
		})
		if err := s.Serve(viper.GetBool("once")); err != nil {
			contract.LogFatal("Scheduler failed", err)
		}
	},
}
