package core

import (
	"fmt"
	"sort"

	"github.com/onchainlab/gauge/core/algo"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
)

// Column headers of the simplified Mayer view when stored as a metric table.
var mayerColumns = []string{"Date", "BTC Price", "SMA200D", "Mayer Multiple"}

// BuildMayerMultiple sorts the series by timestamp, computes the trailing
// mean over window points and the Mayer Multiple of every point.
// The full dataset keeps every point; the simplified view and the last
// samples comparison points are taken from complete windows only.
func BuildMayerMultiple(series []schema.Observation, window, samples int) schema.MayerResult {
	sorted := make([]schema.Observation, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	prices := make([]float64, len(sorted))
	for i, o := range sorted {
		prices[i] = o.Price
	}
	means := algo.TrailingMeans(prices, window)

	full := make([]schema.AnnotatedObservation, len(sorted))
	var simplified []schema.SimplifiedObservation
	for i, o := range sorted {
		a := schema.AnnotatedObservation{
			Date:                   contract.EpochDate(o.Timestamp),
			Timestamp:              o.Timestamp,
			Price:                  o.Price,
			SMA:                    means[i].Value,
			IsSMAComplete:          means[i].Complete,
			MayerMultiple:          algo.SafeRatio(o.Price, means[i].Value),
			OriginalIndex:          o.Index,
			OriginalReferencePrice: o.FourYearPrice,
		}
		full[i] = a
		if a.IsSMAComplete {
			simplified = append(simplified, schema.SimplifiedObservation{
				Date:          a.Date,
				Price:         a.Price,
				SMA:           a.SMA,
				MayerMultiple: a.MayerMultiple,
			})
		}
	}

	return schema.MayerResult{
		Window:     window,
		Full:       full,
		Simplified: simplified,
		Samples:    comparisonSamples(full, samples),
	}
}

// comparisonSamples returns the last n complete points paired with the vendor index.
func comparisonSamples(full []schema.AnnotatedObservation, n int) []schema.ComparisonSample {
	if n <= 0 {
		return nil
	}
	var picked []schema.AnnotatedObservation
	for i := len(full) - 1; i >= 0 && len(picked) < n; i-- {
		if full[i].IsSMAComplete {
			picked = append(picked, full[i])
		}
	}

	out := make([]schema.ComparisonSample, len(picked))
	for i, a := range picked {
		// picked is newest first; samples read oldest first
		out[len(picked)-1-i] = schema.ComparisonSample{
			Date:          a.Date,
			Price:         a.Price,
			SMA:           a.SMA,
			FourYearPrice: a.OriginalReferencePrice,
			OriginalIndex: a.OriginalIndex,
			MayerMultiple: a.MayerMultiple,
			Ratio:         algo.OptionalRatio(a.OriginalIndex, a.MayerMultiple),
		}
	}
	return out
}

// MayerTable projects the simplified view onto a metric table, the form
// the history store and the tool server consume.
func MayerTable(result schema.MayerResult) *schema.MetricTable {
	table := &schema.MetricTable{
		Metric:  schema.MayerMetric,
		Columns: mayerColumns,
		Rows:    make([]schema.MetricRow, 0, len(result.Simplified)),
	}
	for _, a := range result.Full {
		if !a.IsSMAComplete {
			table.Skipped++
			continue
		}
		multiple := schema.TextCell("")
		if a.MayerMultiple != nil {
			multiple = schema.NumCell(*a.MayerMultiple, contract.FormatFixed(*a.MayerMultiple, contract.RatioPlaces))
		}
		table.Rows = append(table.Rows, schema.MetricRow{
			Date:      a.Date,
			Timestamp: a.Timestamp,
			Cells: []schema.Cell{
				schema.TextCell(a.Date),
				schema.NumCell(a.Price, contract.FormatFixed(a.Price, contract.PricePlaces)),
				schema.NumCell(a.SMA, contract.FormatFixed(a.SMA, contract.PricePlaces)),
				multiple,
			},
		})
	}
	if table.Skipped > 0 {
		table.Notes = append(table.Notes, fmt.Sprintf("%d warm-up points before the %d-point window filled", table.Skipped, result.Window))
	}
	return table
}
