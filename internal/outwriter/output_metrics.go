package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/onchainlab/gauge/schema"
)

// Listing formats for PrintMetricInfos.
const (
	TextListing = "text"
	JSONListing = "json"
	CSVListing  = "csv"
)

// PrintMetricInfos lists the supported metrics with their columns and output names.
// This is a static display that does not read any snapshot.
func PrintMetricInfos(w io.Writer, infos []schema.MetricInfo, listing string) error {
	switch listing {
	case JSONListing:
		return writeJSON(w, infos)
	case CSVListing:
		return writeCSVWithHeader(w, []string{"metric", "purpose", "columns", "output"}, func(cw *csv.Writer) error {
			for _, info := range infos {
				if err := cw.Write([]string{string(info.Kind), info.Purpose, strings.Join(info.Columns, "|"), info.Output}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
			return nil
		})
	case TextListing, "":
		return printMetricsText(w, infos)
	default:
		return fmt.Errorf("invalid listing format '%s'. must be text, json, csv", listing)
	}
}

// printMetricsText displays metrics in a human-readable table.
func printMetricsText(w io.Writer, infos []schema.MetricInfo) error {
	if _, err := fmt.Fprintf(w, "📈 Gauge Metrics\n"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Purpose", "Columns", "Output"})

	var data [][]string
	for _, info := range infos {
		data = append(data, []string{
			string(info.Kind),
			info.Purpose,
			strings.Join(info.Columns, ", "),
			info.Output,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
