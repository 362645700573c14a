package core

import (
	"fmt"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/schema"
)

func init() {
	register(mvrvConverter{})
}

// mvrvConverter exports every field of the snapshot, taking its columns
// from the keys of the first record.
type mvrvConverter struct{}

var _ Converter = mvrvConverter{} // Compile-time check

// Info implements the Converter interface.
func (mvrvConverter) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Kind:    schema.MVRVMetric,
		Purpose: "Market Value to Realized Value; columns follow the first record",
		Columns: []string{"<keys of the first record>"},
		Output:  OutputName(schema.MVRVMetric),
	}
}

// Convert implements the Converter interface.
func (mvrvConverter) Convert(doc *ingest.Document) (*schema.MetricTable, error) {
	if err := doc.Accepts(ingest.ShapeArray); err != nil {
		return nil, err
	}
	records, err := doc.Records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty array has no columns", ingest.ErrUnsupportedShape)
	}

	headers := records[0].Keys()
	table := &schema.MetricTable{Metric: schema.MVRVMetric, Columns: headers}
	for _, rec := range records {
		row := schema.MetricRow{Cells: make([]schema.Cell, len(headers))}
		for i, h := range headers {
			v, ok := rec.Get(h)
			if !ok || v.IsNull() {
				row.Cells[i] = schema.TextCell("")
				continue
			}
			if !v.IsNumber() {
				row.Cells[i] = schema.TextCell(v.Text())
				continue
			}
			f, _ := v.Float()
			if isDateHeader(h) {
				ts := contract.FloatToEpoch(f)
				date := contract.EpochDate(ts)
				row.Cells[i] = schema.TextCell(date)
				if row.Date == "" {
					row.Date, row.Timestamp = date, ts
				}
				continue
			}
			row.Cells[i] = schema.NumCell(f, contract.FormatFixed(f, mvrvPlaces(h)))
		}
		table.Rows = append(table.Rows, row)
	}
	addRangeNote(table)
	return table, nil
}

func isDateHeader(h string) bool {
	return lowerContains(h, "time", "date")
}

// mvrvPlaces picks decimals by column name: ratios four, everything else two.
func mvrvPlaces(h string) int32 {
	if !lowerContains(h, "price") && lowerContains(h, "ratio", "mvrv") {
		return contract.RatioPlaces
	}
	return contract.PricePlaces
}
