package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/schema"
)

// ErrUnknownMetric is returned for a metric without a converter.
var ErrUnknownMetric = errors.New("unknown metric")

// UnknownPlaceholder fills cells whose source value is absent.
const UnknownPlaceholder = "Unknown"

// verbatim marks a column whose values are copied as-is.
const verbatim int32 = -1

// Converter turns a decoded snapshot into a flat metric table.
type Converter interface {
	Info() schema.MetricInfo
	Convert(doc *ingest.Document) (*schema.MetricTable, error)
}

// converters holds every registered converter by metric kind.
var converters = map[schema.MetricKind]Converter{}

func register(c Converter) {
	converters[c.Info().Kind] = c
}

// LookupConverter returns the converter for kind.
func LookupConverter(kind schema.MetricKind) (Converter, error) {
	c, ok := converters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, kind)
	}
	return c, nil
}

// MetricInfos lists every supported metric in display order, Mayer first.
func MetricInfos() []schema.MetricInfo {
	out := []schema.MetricInfo{{
		Kind:    schema.MayerMetric,
		Purpose: "200-day SMA and Mayer Multiple computed from daily prices",
		Columns: []string{"date", "price", "sma200d", "mayerMultiple", "originalIndex", "fourYearPrice", "timestamp"},
		Output:  "corrected-mayer-multiple",
	}}
	for _, kind := range schema.AllMetricKinds {
		if c, ok := converters[kind]; ok {
			out = append(out, c.Info())
		}
	}
	return out
}

// ConvertDocument runs the converter registered for kind.
func ConvertDocument(kind schema.MetricKind, doc *ingest.Document) (*schema.MetricTable, error) {
	c, err := LookupConverter(kind)
	if err != nil {
		return nil, err
	}
	return c.Convert(doc)
}

// ConvertFile reads the snapshot at path and converts it.
func ConvertFile(kind schema.MetricKind, path string) (*schema.MetricTable, error) {
	c, err := LookupConverter(kind)
	if err != nil {
		return nil, err
	}
	doc, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := c.Convert(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s as %s: %w", path, kind, err)
	}
	return table, nil
}

// OutputName is the base file name written for a metric.
func OutputName(kind schema.MetricKind) string {
	return string(kind) + "-data-readable"
}

// column declares one output column of a record converter.
type column struct {
	header     string
	aliases    []string
	places     int32 // decimals, or verbatim
	required   bool  // records without it are skipped
	zeroAbsent bool  // zero, null and empty values render as the placeholder
}

// recordConverter maps object records onto columns by alias.
type recordConverter struct {
	kind        schema.MetricKind
	purpose     string
	shapes      []ingest.Shape
	dateAliases []string
	dateHeader  string
	keepUndated bool // render a missing date as UnknownPlaceholder instead of skipping
	columns     []column
	placeholder string
	derive      *derivedColumn
}

// derivedColumn appends a value computed from the record's other fields.
type derivedColumn struct {
	header string
	fn     func(rec ingest.Record) schema.Cell
}

var _ Converter = &recordConverter{} // Compile-time check

// Info implements the Converter interface.
func (c *recordConverter) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Kind:    c.kind,
		Purpose: c.purpose,
		Columns: c.headers(),
		Output:  OutputName(c.kind),
	}
}

func (c *recordConverter) headers() []string {
	h := []string{c.dateHeader}
	for _, col := range c.columns {
		h = append(h, col.header)
	}
	if c.derive != nil {
		h = append(h, c.derive.header)
	}
	return h
}

// Convert implements the Converter interface.
func (c *recordConverter) Convert(doc *ingest.Document) (*schema.MetricTable, error) {
	if err := doc.Accepts(c.shapes...); err != nil {
		return nil, err
	}
	records, err := doc.Records()
	if err != nil {
		return nil, err
	}

	table := &schema.MetricTable{Metric: c.kind, Columns: c.headers()}
	for _, rec := range records {
		row, ok := c.convertRecord(rec)
		if !ok {
			table.Skipped++
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	addRangeNote(table)
	return table, nil
}

func (c *recordConverter) convertRecord(rec ingest.Record) (schema.MetricRow, bool) {
	date, ts, ok := recordDate(rec, c.dateAliases...)
	if !ok {
		if !c.keepUndated {
			return schema.MetricRow{}, false
		}
		date = UnknownPlaceholder
	}

	cells := []schema.Cell{schema.TextCell(date)}
	for _, col := range c.columns {
		v, _, found := rec.Lookup(col.aliases...)
		if found && col.zeroAbsent && isBlank(v) {
			found = false
		}
		if !found {
			if col.required {
				return schema.MetricRow{}, false
			}
			cells = append(cells, schema.TextCell(c.placeholder))
			continue
		}
		cells = append(cells, valueCell(v, col.places))
	}
	if c.derive != nil {
		cells = append(cells, c.derive.fn(rec))
	}
	return schema.MetricRow{Date: date, Timestamp: ts, Cells: cells}, true
}

// isBlank reports a null, empty or zero value.
func isBlank(v ingest.Value) bool {
	if v.IsEmpty() {
		return true
	}
	f, isNum := v.Float()
	return isNum && f == 0
}

// valueCell renders v with the given decimals, or verbatim.
func valueCell(v ingest.Value, places int32) schema.Cell {
	f, isNum := v.Float()
	if !isNum {
		return schema.TextCell(v.Text())
	}
	if places == verbatim {
		return schema.NumCell(f, v.Text())
	}
	return schema.NumCell(f, contract.FormatFixed(f, places))
}

// recordDate renders the first present date alias. Numbers and numeric
// strings are epoch values; other strings are kept verbatim. Zero, null
// and empty values count as absent.
func recordDate(rec ingest.Record, aliases ...string) (string, int64, bool) {
	for _, alias := range aliases {
		v, ok := rec.Get(alias)
		if !ok || v.IsEmpty() {
			continue
		}
		if f, isNum := v.Float(); isNum && f == 0 {
			continue
		}
		date, ts := dateText(v)
		return date, ts, true
	}
	return "", 0, false
}

func dateText(v ingest.Value) (string, int64) {
	if f, ok := v.Float(); ok {
		ts := contract.FloatToEpoch(f)
		return contract.EpochDate(ts), ts
	}
	return v.Text(), 0
}

// addRangeNote records the first and last dates of a non-empty table.
func addRangeNote(table *schema.MetricTable) {
	if len(table.Rows) == 0 {
		return
	}
	table.Notes = append(table.Notes, fmt.Sprintf("date range: %s to %s", table.Rows[0].Date, table.LastDate()))
}

// lowerContains reports whether s contains any of the substrings, case-insensitively.
func lowerContains(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
