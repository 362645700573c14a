package schema

import "time"

// RunRecord represents a row from the gauge_runs table.
type RunRecord struct {
	RunID        int64
	Metric       string
	SourcePath   string
	StartTime    time.Time
	EndTime      *time.Time
	RowsTotal    int
	RowsSkipped  int
	RowsAppended int
}
