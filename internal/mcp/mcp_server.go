// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the perflog MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Perflog Analysis Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: reconstruct_dispatch ---
	s.AddTool(mcp.NewTool("reconstruct_dispatch",
		mcp.WithDescription("Reconstruct the per-task dispatch cost from a sparse performance log and split it into typical and tail bands."),
		mcp.WithString("log_dir", mcp.Description("Directory or file path of the performance log, or an s3:// or hdfs:// URL (defaults to the configured location).")),
		mcp.WithString("driver", mcp.Description("Cumulative counter that defines the units, e.g. tasks_dispatched.")),
		mcp.WithString("dependent", mcp.Description("Cumulative counter to attribute to units, e.g. time_scheduling.")),
		mcp.WithNumber("percentile", mcp.Description("Percentile in (0, 100] separating the typical band from the tail. Defaults to 98.")),
	), h.handleReconstructDispatch)

	// --- 2. Tool: worker_states ---
	s.AddTool(mcp.NewTool("worker_states",
		mcp.WithDescription("Rebuild the worker state in effect at every unit of task progress."),
		mcp.WithString("log_dir", mcp.Description("Directory or file path of the performance log.")),
		mcp.WithString("driver", mcp.Description("Progress counter, e.g. tasks_done.")),
		mcp.WithString("states", mcp.Description("Comma-separated state fields, e.g. workers_connected,workers_idle,workers_busy.")),
		mcp.WithNumber("limit", mcp.Description("Return at most this many points (0 returns all).")),
	), h.handleWorkerStates)

	// --- 3. Tool: log_header ---
	s.AddTool(mcp.NewTool("log_header",
		mcp.WithDescription("List the field names found on the header line of a performance log."),
		mcp.WithString("log_dir", mcp.Description("Directory or file path of the performance log.")),
	), h.handleLogHeader)

	// --- 4. Tool: history_status ---
	s.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report the run history backend and how many analyses it holds."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer starts the perflog MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
