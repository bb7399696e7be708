package runstore

import (
	"time"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetRunStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(kind schema.RunKind, source string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(kind, source, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, rowsRead int, pointsWritten int) error {
	args := m.Called(runID, endTime, rowsRead, pointsWritten)
	return args.Error(0)
}

// RecordUnitCosts implements the RunStore interface.
func (m *MockRunStore) RecordUnitCosts(runID int64, partitioned schema.PartitionedSeries) error {
	args := m.Called(runID, partitioned)
	return args.Error(0)
}

// RecordWorkerStates implements the RunStore interface.
func (m *MockRunStore) RecordWorkerStates(runID int64, series schema.StateSeries) error {
	args := m.Called(runID, series)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllUnitCosts implements the RunStore interface.
func (m *MockRunStore) GetAllUnitCosts() ([]schema.UnitCostRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.UnitCostRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
