// Package core has the orchestration that turns a performance log into
// dispatch and worker analyses, charts and spreadsheets.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/outwriter"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/internal/source"
	"github.com/huangsam/perflog/schema"
)

// ExecutorFunc defines the function signature for executing different analysis modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// Default artifact names, placed next to local logs or in the working directory.
const (
	dispatchChartSuffix = "_performance.png"
	defaultSheetBase    = "performance"
)

// ExecuteDispatch runs the dispatch-cost analysis and writes its results.
// It serves as the main entry point for the 'dispatch' mode.
func ExecuteDispatch(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	ctx = withOutputMode(ctx, cfg)
	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return err
	}
	logAnalysisHeader(ctx, cfg, schema.DispatchRun, src.Location())

	ctx = beginRun(ctx, cfg, mgr, schema.DispatchRun, src.Location(), time.Now())
	result, err := GetDispatchResults(ctx, cfg, src)
	if err != nil {
		endFailedRun(ctx, mgr, src.Location())
		return err
	}
	recordDispatch(ctx, mgr, result)

	writer := outwriter.NewOutWriter()
	if err := writer.WriteDispatch(result, cfg); err != nil {
		return err
	}
	if cfg.Plot {
		path := chartPath(cfg, src, cfg.TaskName+dispatchChartSuffix)
		return writer.WriteDispatchChart(result, path)
	}
	return nil
}

// ExecuteWorkers runs the worker-state analysis and writes its results.
// It serves as the main entry point for the 'workers' mode.
func ExecuteWorkers(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	ctx = withOutputMode(ctx, cfg)
	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return err
	}
	logAnalysisHeader(ctx, cfg, schema.WorkersRun, src.Location())

	ctx = beginRun(ctx, cfg, mgr, schema.WorkersRun, src.Location(), time.Now())
	result, err := GetWorkerResults(ctx, cfg, src)
	if err != nil {
		endFailedRun(ctx, mgr, src.Location())
		return err
	}
	recordWorkers(ctx, mgr, result)

	writer := outwriter.NewOutWriter()
	if err := writer.WriteWorkers(result, cfg); err != nil {
		return err
	}
	if cfg.Plot {
		name := fmt.Sprintf("%dtasks_%dworkers.png", result.LastDriver, result.MaxWorkers)
		return writer.WriteWorkerChart(result, chartPath(cfg, src, name))
	}
	return nil
}

// ExecuteConvert copies the raw log into a spreadsheet. Run history is not
// recorded for conversions.
func ExecuteConvert(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return err
	}
	lg, err := loadLog(ctx, cfg, src)
	if err != nil {
		return err
	}

	path := cfg.OutputFile
	if path == "" {
		path = artifactPath(src, defaultSheetBase+"."+string(cfg.SheetFormat))
	}
	return outwriter.NewOutWriter().WriteSpreadsheet(lg, cfg.SheetFormat, path)
}

// ExecuteHeader prints the fields named on the header line of the log.
func ExecuteHeader(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	src, err := source.Resolve(ctx, cfg)
	if err != nil {
		return err
	}
	header, err := perflog.LoadHeader(ctx, src,
		perflog.WithMarker(cfg.Marker),
		perflog.WithLookahead(cfg.Lookahead),
	)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHeader(src.Location(), header, cfg)
}

// chartPath returns --plot-file when given, otherwise the default name placed
// next to the log.
func chartPath(cfg *contract.Config, src contract.Source, defaultName string) string {
	if cfg.PlotFile != "" {
		return cfg.PlotFile
	}
	return artifactPath(src, defaultName)
}

// artifactPath joins name onto the directory of a local log, or the working
// directory for remote logs.
func artifactPath(src contract.Source, name string) string {
	if dir, ok := src.Dir(); ok {
		return filepath.Join(dir, name)
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, name)
	}
	return name
}
