// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"io"
	"time"

	"github.com/huangsam/perflog/schema"
)

// Source is a place a performance log can be read from.
// Every call to Open starts a fresh read at the beginning of the log, which is
// how the header pass and the data pass stay independent of each other.
type Source interface {
	// Open returns a reader positioned at the start of the log.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Location returns a human-readable identifier such as a path or URL.
	Location() string

	// Dir returns the local directory holding the log, if there is one.
	// Charts and spreadsheets default to being written next to the log.
	Dir() (string, bool)
}

// HistoryManager defines the interface for managing the run history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking analysis runs and their outputs.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(kind schema.RunKind, source string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, rowsRead int, pointsWritten int) error

	// RecordUnitCosts stores the partitioned per-unit costs of a dispatch run
	RecordUnitCosts(runID int64, partitioned schema.PartitionedSeries) error

	// RecordWorkerStates stores the filled state series of a workers run
	RecordWorkerStates(runID int64, series schema.StateSeries) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run in run ID order
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllUnitCosts returns every recorded unit cost ordered by run and unit
	GetAllUnitCosts() ([]schema.UnitCostRecord, error)

	// Close closes the underlying connection
	Close() error
}
