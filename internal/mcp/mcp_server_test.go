package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/perflog/internal/contract"
	mcp_internal "github.com/huangsam/perflog/internal/mcp"
	"github.com/huangsam/perflog/internal/runstore"
	"github.com/huangsam/perflog/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `# timestamp tasks_dispatched time_scheduling tasks_done workers_connected workers_idle workers_busy
100 1 10 0 1 1 0
200 3 30 2 2 0 2
300 4 130 4 2 2 0
`

func baseConfig(dir string) *contract.Config {
	return &contract.Config{
		LogLocation:   dir,
		LogFile:       "performance",
		Marker:        "#",
		Lookahead:     10,
		Policy:        schema.RejectPolicy,
		DriverField:   "tasks_dispatched",
		CostField:     "time_scheduling",
		Percentile:    98,
		ProgressField: "tasks_done",
		StateFields:   []string{"workers_connected", "workers_idle", "workers_busy"},
	}
}

func callTool(t *testing.T, cfg *contract.Config, mgr contract.HistoryManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr, "test")
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "performance"), []byte(sampleLog), 0o644))
	cfg := baseConfig(".")

	t.Run("reconstruct_dispatch", func(t *testing.T) {
		res := callTool(t, cfg, nil, "reconstruct_dispatch", map[string]any{
			"log_dir":    dir,
			"percentile": 60.0,
		})
		require.False(t, res.IsError, resultText(res))

		var result schema.DispatchResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, []float64{10, 10, 100}, result.Reconstructed.Values())
		assert.Equal(t, 60.0, result.Partitioned.Percentile)
		assert.InDelta(t, 28.0, result.Partitioned.Threshold, 1e-9)
		assert.Len(t, result.Partitioned.AtOrAbove, 1)
	})

	t.Run("worker_states with limit", func(t *testing.T) {
		res := callTool(t, cfg, nil, "worker_states", map[string]any{
			"log_dir": dir,
			"states":  "workers_connected, workers_busy",
			"limit":   2.0,
		})
		require.False(t, res.IsError, resultText(res))

		var result schema.WorkerResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, []string{"workers_connected", "workers_busy"}, result.Series.StateFields)
		assert.Len(t, result.Series.Points, 2)
		assert.Equal(t, int64(4), result.LastDriver)
	})

	t.Run("log_header", func(t *testing.T) {
		res := callTool(t, cfg, nil, "log_header", map[string]any{"log_dir": dir})
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), `"tasks_dispatched"`)
		assert.Contains(t, resultText(res), `"line": 1`)
	})

	t.Run("base config is not modified", func(t *testing.T) {
		assert.Equal(t, ".", cfg.LogLocation)
		assert.Equal(t, 98.0, cfg.Percentile)
		assert.Len(t, cfg.StateFields, 3)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := baseConfig(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(cfg.LogLocation, "performance"), []byte(sampleLog), 0o644))

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"percentile above 100", "reconstruct_dispatch", map[string]any{"percentile": 150.0}, "percentile must be"},
		{"same driver and dependent", "reconstruct_dispatch", map[string]any{"driver": "a", "dependent": "a"}, "must differ"},
		{"negative limit", "worker_states", map[string]any{"limit": -1.0}, "limit must be"},
		{"missing log", "log_header", map[string]any{"log_dir": "/nonexistent/perflog"}, "cannot open log"},
		{"unknown field", "reconstruct_dispatch", map[string]any{"dependent": "time_polling"}, "dispatch analysis failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, cfg, nil, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.contains)
		})
	}
}

func TestMCPServerHistoryStatus(t *testing.T) {
	cfg := baseConfig(".")

	t.Run("not configured", func(t *testing.T) {
		res := callTool(t, cfg, nil, "history_status", nil)
		assert.True(t, res.IsError)
	})

	t.Run("reports status", func(t *testing.T) {
		store := &runstore.MockRunStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true, TotalRuns: 4}, nil)
		mgr := &runstore.MockHistoryManager{}
		mgr.On("GetRunStore").Return(store)

		res := callTool(t, cfg, mgr, "history_status", nil)
		require.False(t, res.IsError)
		assert.Contains(t, resultText(res), `"total_runs": 4`)
	})
}
