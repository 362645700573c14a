// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	console io.Writer
}

// NewOutWriter creates a new instance of the output writer that prints summaries to stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{console: os.Stdout}
}

// NewOutWriterTo creates an output writer that prints summaries to w.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{console: w}
}

// WriteMayer writes the Mayer Multiple datasets using the configured formats.
func (ow *OutWriter) WriteMayer(result schema.MayerResult, cfg *contract.Config) ([]string, error) {
	return WriteMayerResult(result, cfg)
}

// WriteTable writes a converted metric table using the configured formats.
func (ow *OutWriter) WriteTable(table *schema.MetricTable, baseName string, cfg *contract.Config) ([]string, error) {
	return WriteMetricTable(table, baseName, cfg)
}

// PrintSamples prints the comparison samples table.
func (ow *OutWriter) PrintSamples(samples []schema.ComparisonSample, cfg *contract.Config) error {
	return PrintComparisonSamples(ow.console, samples, ow.colorsEnabled(cfg))
}

// PrintSummary prints row counts and notes of a converted table.
func (ow *OutWriter) PrintSummary(table *schema.MetricTable) error {
	return PrintTableSummary(ow.console, table)
}

// colorsEnabled reports whether colored labels should be printed.
// Colors need both the config switch and a terminal on stdout.
func (ow *OutWriter) colorsEnabled(cfg *contract.Config) bool {
	if !cfg.UseColors {
		return false
	}
	f, ok := ow.console.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
