package history

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/onchainlab/gauge/schema"
)

// PrintHistoryStatus prints history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Total Rows: %d\n", status.TotalRows)
	if len(status.LatestDates) > 0 {
		_, _ = fmt.Fprintln(w, "Latest Dates:")
		for _, metric := range slices.Sorted(maps.Keys(status.LatestDates)) {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", metric, status.LatestDates[metric])
		}
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
