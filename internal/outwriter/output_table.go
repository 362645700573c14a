package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/parquet"
	"github.com/onchainlab/gauge/schema"
)

// WriteMetricTable writes a converted table as <baseName>.<format> for every
// configured format and returns the written paths.
func WriteMetricTable(table *schema.MetricTable, baseName string, cfg *contract.Config) ([]string, error) {
	if err := ensureDir(cfg.OutputDir); err != nil {
		return nil, err
	}
	var written []string
	for _, format := range cfg.Formats {
		path := outputPath(cfg.OutputDir, baseName, format)

		var err error
		switch format {
		case schema.CSVFormat:
			err = writeWithFile(path, func(w io.Writer) error {
				return writeTableCSV(w, table)
			}, "Wrote CSV", cfg.Quiet)
		case schema.JSONFormat:
			err = writeWithFile(path, func(w io.Writer) error {
				return writeTableJSON(w, table)
			}, "Wrote JSON", cfg.Quiet)
		case schema.ParquetFormat:
			err = parquet.WriteMetricTableParquet(table, path)
			if err == nil && !cfg.Quiet {
				contract.LogInfo("💾 Wrote Parquet to %s", path)
			}
		default:
			err = fmt.Errorf("unsupported output format %q", format)
		}
		if err != nil {
			return written, fmt.Errorf("error writing %s output: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// writeTableCSV writes the column headers followed by the rendered cells.
func writeTableCSV(w io.Writer, table *schema.MetricTable) error {
	return writeCSVWithHeader(w, table.Columns, func(cw *csv.Writer) error {
		return cw.WriteAll(table.Records())
	})
}

// writeTableJSON writes one object per row, keyed by column in column order.
func writeTableJSON(w io.Writer, table *schema.MetricTable) error {
	rows := make([]orderedRow, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = orderedRow{columns: table.Columns, cells: r.Cells}
	}
	return writeJSON(w, rows)
}

// orderedRow marshals a table row as a JSON object that keeps column order.
type orderedRow struct {
	columns []string
	cells   []schema.Cell
}

// MarshalJSON implements json.Marshaler.
func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var cell schema.Cell
		if i < len(r.cells) {
			cell = r.cells[i]
		}
		value, err := cellJSON(cell)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// cellJSON keeps numeric cells as numbers, using the rendered text so
// fixed decimals survive. Non-finite numbers fall back to strings.
func cellJSON(cell schema.Cell) ([]byte, error) {
	if cell.Num != nil && !math.IsNaN(*cell.Num) && !math.IsInf(*cell.Num, 0) {
		if text := []byte(cell.Text); json.Valid(text) && isJSONNumber(text) {
			return text, nil
		}
		return json.Marshal(*cell.Num)
	}
	return json.Marshal(cell.Text)
}

func isJSONNumber(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	c := b[0]
	return c == '-' || (c >= '0' && c <= '9')
}
