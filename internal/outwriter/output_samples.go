package outwriter

import (
	"fmt"
	"io"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintComparisonSamples renders the last complete points next to the vendor
// index, so a drift between the two is visible at a glance.
func PrintComparisonSamples(w io.Writer, samples []schema.ComparisonSample, useColors bool) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No complete windows to compare.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Price", "SMA", "4Y Price", "Vendor Index", "Mayer Multiple", "Ratio", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range samples {
		label := contract.GetPlainLabel(s.Ratio)
		if useColors {
			label = contract.GetColorLabel(s.Ratio)
		}
		data = append(data, []string{
			s.Date,
			contract.FormatFixed(s.Price, contract.PricePlaces),
			contract.FormatFixed(s.SMA, contract.PricePlaces),
			orMissing(contract.FormatOptional(s.FourYearPrice, contract.PricePlaces)),
			orMissing(contract.FormatOptional(s.OriginalIndex, contract.RatioPlaces)),
			orMissing(contract.FormatOptional(s.MayerMultiple, contract.RatioPlaces)),
			orMissing(contract.FormatOptional(s.Ratio, contract.RatioPlaces)),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintTableSummary prints row counts and the converter's notes.
func PrintTableSummary(w io.Writer, table *schema.MetricTable) error {
	if _, err := fmt.Fprintf(w, "%s: %d rows", table.Metric, len(table.Rows)); err != nil {
		return err
	}
	if table.Skipped > 0 {
		if _, err := fmt.Fprintf(w, ", %d skipped", table.Skipped); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, note := range table.Notes {
		if _, err := fmt.Fprintf(w, "  %s\n", note); err != nil {
			return err
		}
	}
	return nil
}

func orMissing(s string) string {
	if s == "" {
		return contract.MissingValue
	}
	return s
}
