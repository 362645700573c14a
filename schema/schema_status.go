package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string            `json:"backend"`
	Connected     bool              `json:"connected"`
	TotalRuns     int               `json:"total_runs"`
	LastRunID     int64             `json:"last_run_id"`
	LastRunTime   time.Time         `json:"last_run_time"`
	OldestRunTime time.Time         `json:"oldest_run_time"`
	TotalRows     int               `json:"total_rows"`
	LatestDates   map[string]string `json:"latest_dates"` // metric -> newest stored row date
	TableSizes    map[string]int64  `json:"table_sizes"`
}

// HistoryRowRecord represents a row from the gauge_rows table.
type HistoryRowRecord struct {
	Metric    string
	RowDate   string
	Column    string
	ValueText string
	ValueNum  *float64
}
