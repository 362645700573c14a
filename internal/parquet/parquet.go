// Package parquet provides data structures and functions for exporting gauge
// datasets to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/onchainlab/gauge/schema"
	"github.com/parquet-go/parquet-go"
)

// AnnotatedRow is one point of the full Mayer Multiple dataset.
type AnnotatedRow struct {
	// Date is the UTC calendar day of the observation
	Date string `parquet:"date,snappy"`

	// Timestamp is the source epoch value, verbatim
	Timestamp int64 `parquet:"timestamp,snappy"`

	Price   float64 `parquet:"price,snappy"`
	SMA200D float64 `parquet:"sma200d,snappy"`

	// IsSMAComplete reports whether the moving average covered a full window
	IsSMAComplete bool `parquet:"is_sma_complete,snappy"`

	// MayerMultiple is null when the moving average is zero
	MayerMultiple *float64 `parquet:"mayer_multiple,optional,snappy"`

	OriginalIndex *float64 `parquet:"original_index,optional,snappy"`
	FourYearPrice *float64 `parquet:"four_year_price,optional,snappy"`
}

// SimplifiedRow is one complete-window point of the Mayer Multiple dataset.
type SimplifiedRow struct {
	Date          string   `parquet:"date,snappy"`
	Price         float64  `parquet:"price,snappy"`
	SMA200D       float64  `parquet:"sma200d,snappy"`
	MayerMultiple *float64 `parquet:"mayer_multiple,optional,snappy"`
}

// MetricCell is one cell of a converted metric table in long format.
// Converted tables have per-metric columns, so they are stored one cell per row.
type MetricCell struct {
	Metric    string   `parquet:"metric,snappy"`
	RowIndex  int32    `parquet:"row_index,snappy"`
	RowDate   string   `parquet:"row_date,snappy"`
	Column    string   `parquet:"column_name,snappy"`
	ValueText string   `parquet:"value_text,snappy"`
	ValueNum  *float64 `parquet:"value_num,optional,snappy"`
}

// Run represents a single conversion run.
// This struct maps to the gauge_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	Metric     string `parquet:"metric,snappy"`
	SourcePath string `parquet:"source_path,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	RowsTotal    int32 `parquet:"rows_total,snappy"`
	RowsSkipped  int32 `parquet:"rows_skipped,snappy"`
	RowsAppended int32 `parquet:"rows_appended,snappy"`
}

// HistoryRow is one stored cell of the gauge_rows table.
type HistoryRow struct {
	Metric    string   `parquet:"metric,snappy"`
	RowDate   string   `parquet:"row_date,snappy"`
	Column    string   `parquet:"column_name,snappy"`
	ValueText string   `parquet:"value_text,snappy"`
	ValueNum  *float64 `parquet:"value_num,optional,snappy"`
}

// writeRows writes rows to a Parquet file, with the schema derived from T's struct tags.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnnotatedParquet writes the full Mayer Multiple dataset.
func WriteAnnotatedParquet(data []schema.AnnotatedObservation, outputPath string) error {
	return writeRows(ConvertAnnotated(data), outputPath)
}

// WriteSimplifiedParquet writes the simplified Mayer Multiple dataset.
func WriteSimplifiedParquet(data []schema.SimplifiedObservation, outputPath string) error {
	return writeRows(ConvertSimplified(data), outputPath)
}

// WriteMetricTableParquet writes a converted metric table in long format.
func WriteMetricTableParquet(table *schema.MetricTable, outputPath string) error {
	return writeRows(ConvertMetricTable(table), outputPath)
}

// WriteRunsParquet writes stored conversion runs.
func WriteRunsParquet(records []schema.RunRecord, outputPath string) error {
	return writeRows(ConvertRunRecords(records), outputPath)
}

// WriteHistoryRowsParquet writes stored metric rows.
func WriteHistoryRowsParquet(records []schema.HistoryRowRecord, outputPath string) error {
	return writeRows(ConvertHistoryRows(records), outputPath)
}

// ConvertAnnotated converts annotated observations for Parquet export.
func ConvertAnnotated(data []schema.AnnotatedObservation) []AnnotatedRow {
	result := make([]AnnotatedRow, len(data))
	for i, a := range data {
		result[i] = AnnotatedRow{
			Date:          a.Date,
			Timestamp:     a.Timestamp,
			Price:         a.Price,
			SMA200D:       a.SMA,
			IsSMAComplete: a.IsSMAComplete,
			MayerMultiple: a.MayerMultiple,
			OriginalIndex: a.OriginalIndex,
			FourYearPrice: a.OriginalReferencePrice,
		}
	}
	return result
}

// ConvertSimplified converts simplified observations for Parquet export.
func ConvertSimplified(data []schema.SimplifiedObservation) []SimplifiedRow {
	result := make([]SimplifiedRow, len(data))
	for i, s := range data {
		result[i] = SimplifiedRow{
			Date:          s.Date,
			Price:         s.Price,
			SMA200D:       s.SMA,
			MayerMultiple: s.MayerMultiple,
		}
	}
	return result
}

// ConvertMetricTable flattens a metric table into one MetricCell per cell.
func ConvertMetricTable(table *schema.MetricTable) []MetricCell {
	result := make([]MetricCell, 0, len(table.Rows)*len(table.Columns))
	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			if j >= len(table.Columns) {
				break
			}
			result = append(result, MetricCell{
				Metric:    string(table.Metric),
				RowIndex:  int32(i),
				RowDate:   row.Date,
				Column:    table.Columns[j],
				ValueText: cell.Text,
				ValueNum:  cell.Num,
			})
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			Metric:       record.Metric,
			SourcePath:   record.SourcePath,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			RowsTotal:    int32(record.RowsTotal),
			RowsSkipped:  int32(record.RowsSkipped),
			RowsAppended: int32(record.RowsAppended),
		}
	}
	return result
}

// ConvertHistoryRows converts schema.HistoryRowRecord to HistoryRow for Parquet export.
func ConvertHistoryRows(records []schema.HistoryRowRecord) []HistoryRow {
	result := make([]HistoryRow, len(records))
	for i, record := range records {
		result[i] = HistoryRow{
			Metric:    record.Metric,
			RowDate:   record.RowDate,
			Column:    record.Column,
			ValueText: record.ValueText,
			ValueNum:  record.ValueNum,
		}
	}
	return result
}
