package schema

// Cell is one rendered value of a MetricTable row.
// Text is what CSV and text output show. Num carries the numeric value
// when the cell holds one, so JSON and Parquet can keep it typed.
type Cell struct {
	Text string
	Num  *float64
}

// MetricRow is one converted record.
type MetricRow struct {
	Date      string // Rendered date, or a placeholder such as "Unknown"
	Timestamp int64  // Epoch value the date came from, 0 when the source had none
	Cells     []Cell // One cell per column, in column order
}

// MetricTable is the flat result of a metric conversion.
type MetricTable struct {
	Metric  MetricKind
	Columns []string
	Rows    []MetricRow
	Skipped int      // Records dropped for lacking a required field
	Notes   []string // Human-readable summary lines (ranges, baselines, stats)
}

// Records returns the table body as string rows for CSV writers.
func (t *MetricTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			rec[i] = c.Text
		}
		out = append(out, rec)
	}
	return out
}

// LastDate returns the date of the final row, or "" for an empty table.
func (t *MetricTable) LastDate() string {
	if len(t.Rows) == 0 {
		return ""
	}
	return t.Rows[len(t.Rows)-1].Date
}

// TextCell builds a non-numeric cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// NumCell builds a numeric cell with its rendered text.
func NumCell(v float64, text string) Cell {
	return Cell{Text: text, Num: &v}
}
