package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/parquet"
)

// ExportHistory writes the runs and the stored rows of store to
// <outputFile>.runs.parquet and <outputFile>.rows.parquet.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total stored cells: %d\n", status.TableSizes[rowsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	rows, err := store.GetAllRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(runs, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	rowsFile := outputFile + ".rows.parquet"
	if err := parquet.WriteHistoryRowsParquet(rows, rowsFile); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d cells to: %s\n", len(rows), rowsFile)

	return nil
}
