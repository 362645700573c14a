// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/onchainlab/gauge/schema"
)

// HistoryManager defines the interface for managing the history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking conversion runs and
// keeping the converted rows of each metric over time.
type HistoryStore interface {
	// BeginRun creates a new conversion run and returns its unique ID
	BeginRun(metric schema.MetricKind, sourcePath string, startTime time.Time) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, total, skipped, appended int) error

	// LatestDate returns the newest stored row date for a metric, or "" when none is stored
	LatestDate(metric schema.MetricKind) (string, error)

	// AppendNewer stores only the rows dated strictly after LatestDate and returns how many were stored
	AppendNewer(table *schema.MetricTable) (int, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every tracked run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRows retrieves every stored cell ordered by metric, date and column
	GetAllRows() ([]schema.HistoryRowRecord, error)

	// Close closes the underlying connection
	Close() error
}
