package core

import (
	"fmt"
	"math"

	"github.com/onchainlab/gauge/core/algo"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/schema"
)

func init() {
	register(lthConverter{})
}

// lthConverter relates long-term-holder supply to price on a log scale.
// The normalized ratio is log10(supply) - log10(price) minus its mean over
// the snapshot, so it centers on zero.
type lthConverter struct{}

var _ Converter = lthConverter{} // Compile-time check

type lthPoint struct {
	date      string
	ts        int64
	price     ingest.Value
	supply    ingest.Value
	logPrice  float64
	logSupply float64
}

// Info implements the Converter interface.
func (lthConverter) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Kind:    schema.LTHMetric,
		Purpose: "Long-term-holder supply against price, log-normalized",
		Columns: []string{"Date", "Price", "LTH Supply", "Log Price", "Log Supply", "Normalized Ratio"},
		Output:  OutputName(schema.LTHMetric),
	}
}

// Convert implements the Converter interface.
func (c lthConverter) Convert(doc *ingest.Document) (*schema.MetricTable, error) {
	if err := doc.Accepts(ingest.ShapeArray); err != nil {
		return nil, err
	}
	records, err := doc.Records()
	if err != nil {
		return nil, err
	}

	table := &schema.MetricTable{Metric: schema.LTHMetric, Columns: c.Info().Columns}
	points := make([]lthPoint, 0, len(records))
	for _, rec := range records {
		p, ok := newLTHPoint(rec)
		if !ok {
			table.Skipped++
			continue
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return table, nil
	}

	logRatios := make([]float64, len(points))
	for i, p := range points {
		logRatios[i] = p.logSupply - p.logPrice
	}
	baseline := algo.Mean(logRatios)

	normalized := make([]float64, len(points))
	for i, p := range points {
		n := logRatios[i] - baseline
		normalized[i] = n
		price, _ := p.price.Float()
		supply, _ := p.supply.Float()
		table.Rows = append(table.Rows, schema.MetricRow{
			Date:      p.date,
			Timestamp: p.ts,
			Cells: []schema.Cell{
				schema.TextCell(p.date),
				schema.NumCell(price, p.price.Text()),
				schema.NumCell(supply, p.supply.Text()),
				schema.NumCell(p.logPrice, contract.FormatPlain(p.logPrice)),
				schema.NumCell(p.logSupply, contract.FormatPlain(p.logSupply)),
				schema.NumCell(n, contract.FormatPlain(n)),
			},
		})
	}

	stats := algo.Summarize(normalized)
	table.Notes = append(table.Notes,
		fmt.Sprintf("baseline log ratio: %s", contract.FormatFixed(baseline, contract.RatioPlaces)),
		fmt.Sprintf("normalized ratio min %s, max %s, average %s",
			contract.FormatFixed(stats.Min, contract.RatioPlaces),
			contract.FormatFixed(stats.Max, contract.RatioPlaces),
			contract.FormatFixed(stats.Mean, contract.RatioPlaces)),
	)
	addRangeNote(table)
	return table, nil
}

// newLTHPoint requires a non-zero timestamp, price and supply.
func newLTHPoint(rec ingest.Record) (lthPoint, bool) {
	ts, okTs := rec.Float("timestamp")
	price, okPrice := rec.Float("price")
	supply, okSupply := rec.Float("supply")
	if !okTs || !okPrice || !okSupply || ts == 0 || price == 0 || supply == 0 {
		return lthPoint{}, false
	}
	if math.IsNaN(price) || math.IsNaN(supply) {
		return lthPoint{}, false
	}
	priceValue, _ := rec.Get("price")
	supplyValue, _ := rec.Get("supply")
	epoch := contract.FloatToEpoch(ts)
	return lthPoint{
		date:      contract.EpochDate(epoch),
		ts:        epoch,
		price:     priceValue,
		supply:    supplyValue,
		logPrice:  math.Log10(price),
		logSupply: math.Log10(contract.ScaleSupply(supply)),
	}, true
}
