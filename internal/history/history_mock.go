package history

import (
	"time"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(metric schema.MetricKind, sourcePath string, startTime time.Time) (int64, error) {
	args := m.Called(metric, sourcePath, startTime)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, total, skipped, appended int) error {
	args := m.Called(runID, endTime, total, skipped, appended)
	return args.Error(0)
}

// LatestDate implements the HistoryStore interface.
func (m *MockHistoryStore) LatestDate(metric schema.MetricKind) (string, error) {
	args := m.Called(metric)
	return args.String(0), args.Error(1)
}

// AppendNewer implements the HistoryStore interface.
func (m *MockHistoryStore) AppendNewer(table *schema.MetricTable) (int, error) {
	args := m.Called(table)
	return args.Int(0), args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllRows implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRows() ([]schema.HistoryRowRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.HistoryRowRecord)
	return rows, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
