package runstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/perflog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHistory(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now()
	runID, err := store.BeginRun(schema.DispatchRun, "perf.log", start, map[string]any{"percentile": 90})
	require.NoError(t, err)
	require.NoError(t, store.RecordUnitCosts(runID, samplePartition()))
	require.NoError(t, store.EndRun(runID, start.Add(time.Second), 10, 4))

	base := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, ExportHistory(&out, store, base))

	assert.Contains(t, out.String(), "Exporting data from sqlite backend")
	assert.Contains(t, out.String(), "Exported 1 runs")
	assert.Contains(t, out.String(), "Exported 4 unit costs")

	for _, suffix := range []string{".runs.parquet", ".unit_costs.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExportHistory_Errors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExportHistory(&bytes.Buffer{}, &MockRunStore{}, "")
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("nil store", func(t *testing.T) {
		err := ExportHistory(&bytes.Buffer{}, nil, "out")
		assert.ErrorContains(t, err, "not initialized")
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockRunStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite"}, nil)
		err := ExportHistory(&bytes.Buffer{}, store, "out")
		assert.ErrorContains(t, err, "no run history found")
		store.AssertExpectations(t)
	})

	t.Run("query failure", func(t *testing.T) {
		store := &MockRunStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", TotalRuns: 2}, nil)
		store.On("GetAllRuns").Return(nil, errors.New("connection reset"))
		err := ExportHistory(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestStoreManager(t *testing.T) {
	sm := &StoreManager{}
	assert.Nil(t, sm.GetRunStore())

	store := &MockRunStore{}
	sm.runs = store
	assert.Same(t, store, sm.GetRunStore())
}
