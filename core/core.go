// Package core has core logic for the Mayer Multiple pipeline and the metric converters.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/internal/outwriter"
	"github.com/onchainlab/gauge/schema"
)

// ExecutorFunc defines the function signature for executing a conversion.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteMayer computes the Mayer Multiple for cfg.InputPath, writes the full
// and simplified datasets and prints the comparison samples.
// It serves as the main entry point for the 'mayer' command.
func ExecuteMayer(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := ComputeMayer(cfg.InputPath, cfg.Window, cfg.Samples)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	if _, err := ow.WriteMayer(result, cfg); err != nil {
		return err
	}
	RecordHistory(mgr, MayerTable(result), cfg.InputPath, start)

	if cfg.Quiet {
		return nil
	}
	return ow.PrintSamples(result.Samples, cfg)
}

// ComputeMayer reads the snapshot at path and runs the Mayer Multiple pipeline.
func ComputeMayer(path string, window, samples int) (schema.MayerResult, error) {
	series, err := ingest.ReadObservations(path)
	if err != nil {
		return schema.MayerResult{}, err
	}
	return BuildMayerMultiple(series, window, samples), nil
}

// ExecuteConvert converts cfg.InputPath as cfg.Metric and writes
// <metric>-data-readable files. The Mayer metric runs its own pipeline.
func ExecuteConvert(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Metric == schema.MayerMetric {
		return ExecuteMayer(ctx, cfg, mgr)
	}

	start := time.Now()
	table, err := ConvertFile(cfg.Metric, cfg.InputPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	if _, err := ow.WriteTable(table, OutputName(cfg.Metric), cfg); err != nil {
		return err
	}
	if table.Skipped > 0 {
		contract.LogWarn(fmt.Sprintf("Skipped %s records", cfg.Metric),
			fmt.Errorf("%d records without a date", table.Skipped))
	}
	RecordHistory(mgr, table, cfg.InputPath, start)

	if cfg.Quiet {
		return nil
	}
	return ow.PrintSummary(table)
}

// ExecuteJob runs one scheduled conversion with the job's metric, input and output directory.
func ExecuteJob(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, job contract.Job) error {
	return ExecuteConvert(ctx, cfg.ForJob(job), mgr)
}

// RecordHistory tracks the run and merges rows newer than the stored ones.
// Tracking failures are warnings and never fail the conversion.
func RecordHistory(mgr contract.HistoryManager, table *schema.MetricTable, sourcePath string, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	runID, err := store.BeginRun(table.Metric, sourcePath, start)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return
	}

	appended, err := store.AppendNewer(table)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("History append failed for %s", table.Metric), err)
	}

	if err := store.EndRun(runID, time.Now(), len(table.Rows), table.Skipped, appended); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
