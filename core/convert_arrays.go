package core

import (
	"fmt"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/schema"
)

// Rainbow rows carry a price, a skipped column, nine band levels and an
// optional trailing epoch.
const (
	rainbowMinLen     = 11
	rainbowValueCount = 10
	rainbowDropIndex  = 1
	rainbowNoDate     = "N/A"
)

var rainbowColumns = []string{
	"BTC price", "fire sale", "buy", "accumulate", "still cheap",
	"hold", "bubble forming", "fomo", "sell", "max bubble", "date",
}

// fngValueKeys name the parallel values array next to "dates", in probe order.
var fngValueKeys = []string{"values", "value", "fngIndex", "escapeIndex", "index", "fngValues"}

// fngRecordKeys name the per-record value, in probe order.
var fngRecordKeys = []string{"value", "fngIndex", "escapeIndex", "index", "fng"}

func init() {
	register(rainbowConverter{})
	register(volatilityConverter{})
	register(fngConverter{})
}

type rainbowConverter struct{}

var _ Converter = rainbowConverter{} // Compile-time check

// Info implements the Converter interface.
func (rainbowConverter) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Kind:    schema.RainbowMetric,
		Purpose: "Rainbow chart price bands",
		Columns: rainbowColumns,
		Output:  OutputName(schema.RainbowMetric),
	}
}

// Convert implements the Converter interface.
func (rainbowConverter) Convert(doc *ingest.Document) (*schema.MetricTable, error) {
	if err := doc.Accepts(ingest.ShapeArray); err != nil {
		return nil, err
	}
	table := &schema.MetricTable{Metric: schema.RainbowMetric, Columns: rainbowColumns}
	for _, row := range doc.Rows() {
		if !completeRainbowRow(row) {
			table.Skipped++
			continue
		}

		date, ts, values := rainbowNoDate, int64(0), row
		last := row[len(row)-1]
		if len(row) > rainbowMinLen && last.IsNumber() {
			if f, _ := last.Float(); f > float64(contract.EpochMillisThreshold) {
				ts = contract.FloatToEpoch(f)
				date = contract.EpochDate(ts)
				values = row[:len(row)-1]
			}
		}

		cells := make([]schema.Cell, 0, len(rainbowColumns))
		for i, v := range values {
			if i == rainbowDropIndex {
				continue
			}
			if len(cells) == rainbowValueCount {
				break
			}
			cells = append(cells, bandCell(v))
		}
		cells = append(cells, schema.TextCell(date))
		table.Rows = append(table.Rows, schema.MetricRow{Date: date, Timestamp: ts, Cells: cells})
	}
	addRangeNote(table)
	return table, nil
}

// completeRainbowRow rejects short rows and rows with null or empty values.
func completeRainbowRow(row []ingest.Value) bool {
	if len(row) < rainbowMinLen {
		return false
	}
	for _, v := range row {
		if v.IsEmpty() {
			return false
		}
	}
	return true
}

// bandCell renders JSON numbers with two decimals and anything else verbatim.
func bandCell(v ingest.Value) schema.Cell {
	if v.IsNumber() {
		f, _ := v.Float()
		return schema.NumCell(f, contract.FormatFixed(f, contract.PricePlaces))
	}
	return schema.TextCell(v.Text())
}

type volatilityConverter struct{}

var _ Converter = volatilityConverter{} // Compile-time check

// Info implements the Converter interface.
func (volatilityConverter) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Kind:    schema.VolatilityMetric,
		Purpose: "Bitcoin volatility index",
		Columns: []string{"Date", "Volatility Index"},
		Output:  OutputName(schema.VolatilityMetric),
	}
}

// Convert implements the Converter interface.
func (c volatilityConverter) Convert(doc *ingest.Document) (*schema.MetricTable, error) {
	if err := doc.Accepts(ingest.ShapeColumnar, ingest.ShapeSingle); err != nil {
		return nil, err
	}
	times, okTime := arrayField(doc, "time")
	values, okValue := arrayField(doc, "bl")
	if !okTime || !okValue {
		return nil, fmt.Errorf("%w: expected time and bl arrays", ingest.ErrUnsupportedShape)
	}
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: time has %d, bl has %d", ingest.ErrRaggedColumns, len(times), len(values))
	}

	table := &schema.MetricTable{Metric: schema.VolatilityMetric, Columns: c.Info().Columns}
	for i := range times {
		date, ts := dateText(times[i])
		table.Rows = append(table.Rows, schema.MetricRow{
			Date:      date,
			Timestamp: ts,
			Cells:     []schema.Cell{schema.TextCell(date), valueCell(values[i], verbatim)},
		})
	}
	addRangeNote(table)
	return table, nil
}

// arrayField returns a named array from a columnar document or a single record.
func arrayField(doc *ingest.Document, name string) ([]ingest.Value, bool) {
	if doc.Shape == ingest.ShapeColumnar {
		return doc.Column(name)
	}
	if len(doc.Items) == 0 {
		return nil, false
	}
	v, ok := doc.Items[0].Record().Get(name)
	if !ok || !v.IsArray() {
		return nil, false
	}
	return v.Items(), true
}

type fngConverter struct{}

var _ Converter = fngConverter{} // Compile-time check

// Info implements the Converter interface.
func (fngConverter) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Kind:    schema.FNGMetric,
		Purpose: "Fear and Greed index",
		Columns: []string{"Date", "fng Index"},
		Output:  OutputName(schema.FNGMetric),
	}
}

// Convert implements the Converter interface. The snapshot is either one
// object holding parallel "dates" and values arrays, or one object per day.
func (c fngConverter) Convert(doc *ingest.Document) (*schema.MetricTable, error) {
	if err := doc.Accepts(ingest.ShapeArray); err != nil {
		return nil, err
	}
	records, err := doc.Records()
	if err != nil {
		return nil, err
	}
	table := &schema.MetricTable{Metric: schema.FNGMetric, Columns: c.Info().Columns}
	if len(records) == 0 {
		return table, nil
	}

	first := records[0]
	dates, _ := first.Get("dates")
	switch {
	case dates.IsArray():
		if err := c.fromParallel(table, first, dates.Items()); err != nil {
			return nil, err
		}
	case first.Has("timestamp", "date"):
		c.fromRecords(table, records)
	default:
		return nil, fmt.Errorf("%w: expected dates array or timestamped records", ingest.ErrUnsupportedShape)
	}
	addRangeNote(table)
	return table, nil
}

func (fngConverter) fromParallel(table *schema.MetricTable, rec ingest.Record, dates []ingest.Value) error {
	var values []ingest.Value
	found := ""
	for _, key := range fngValueKeys {
		if v, ok := rec.Get(key); ok && v.IsArray() {
			values, found = v.Items(), key
			break
		}
	}
	if found == "" {
		return fmt.Errorf("%w: dates without a values array", ingest.ErrUnsupportedShape)
	}
	table.Notes = append(table.Notes, "values read from "+found)

	for i, d := range dates {
		if i >= len(values) {
			table.Skipped++
			continue
		}
		date, ts := dateText(d)
		table.Rows = append(table.Rows, schema.MetricRow{
			Date:      date,
			Timestamp: ts,
			Cells:     []schema.Cell{schema.TextCell(date), valueCell(values[i], verbatim)},
		})
	}
	return nil
}

func (fngConverter) fromRecords(table *schema.MetricTable, records []ingest.Record) {
	for _, rec := range records {
		date, ts, ok := recordDate(rec, "timestamp", "date")
		if !ok {
			table.Skipped++
			continue
		}
		value := schema.TextCell(UnknownPlaceholder)
		if v, _, found := rec.Lookup(fngRecordKeys...); found {
			value = valueCell(v, verbatim)
		}
		table.Rows = append(table.Rows, schema.MetricRow{
			Date:      date,
			Timestamp: ts,
			Cells:     []schema.Cell{schema.TextCell(date), value},
		})
	}
}
