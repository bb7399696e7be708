package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/perflog/core"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/internal/source"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// configFor clones the base config, applies the tool arguments and validates
// the result. driverField selects which field the "driver" argument overrides.
func (h *toolHandler) configFor(request mcp.CallToolRequest, driverField func(*contract.Config) *string) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("driver", ""); d != "" && driverField != nil {
		*driverField(cfg) = d
	}
	if p := request.GetString("log_dir", ""); p != "" {
		cfg.LogLocation = p
	}
	if d := request.GetString("dependent", ""); d != "" {
		cfg.CostField = d
	}
	if p := request.GetFloat("percentile", 0); p != 0 {
		cfg.Percentile = p
	}
	if s := request.GetString("states", ""); s != "" {
		cfg.StateFields = nil
		for f := range strings.SplitSeq(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.StateFields = append(cfg.StateFields, f)
			}
		}
	}
	cfg.ResultLimit = request.GetInt("limit", cfg.ResultLimit)
	if err := contract.RevalidateOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleReconstructDispatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, func(c *contract.Config) *string { return &c.DriverField })
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dispatch parameters: %v", err)), nil
	}

	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot open log: %v", err)), nil
	}
	result, err := core.GetDispatchResults(ctx, cfg, src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dispatch analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleWorkerStates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, func(c *contract.Config) *string { return &c.ProgressField })
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid worker parameters: %v", err)), nil
	}

	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot open log: %v", err)), nil
	}
	result, err := core.GetWorkerResults(ctx, cfg, src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("worker analysis failed: %v", err)), nil
	}
	if cfg.ResultLimit > 0 && len(result.Series.Points) > cfg.ResultLimit {
		result.Series.Points = result.Series.Points[:cfg.ResultLimit]
	}
	return jsonResult(result)
}

func (h *toolHandler) handleLogHeader(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot open log: %v", err)), nil
	}
	header, err := perflog.LoadHeader(ctx, src, perflog.WithMarker(cfg.Marker), perflog.WithLookahead(cfg.Lookahead))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading header failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"source": src.Location(),
		"line":   header.Line,
		"fields": header.Fields,
	})
}

func (h *toolHandler) handleHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetRunStore() == nil {
		return mcp.NewToolResultError("run history is not configured"), nil
	}
	status, err := h.mgr.GetRunStore().GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history status failed: %v", err)), nil
	}
	return jsonResult(status)
}
