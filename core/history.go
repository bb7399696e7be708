package core

import (
	"context"
	"time"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/schema"
	"go.uber.org/zap"
)

// runParams is the configuration snapshot stored with every run.
func runParams(cfg *contract.Config, kind schema.RunKind) map[string]any {
	params := map[string]any{
		"log_file":  cfg.LogFile,
		"marker":    cfg.Marker,
		"lookahead": cfg.Lookahead,
		"policy":    string(cfg.Policy),
	}
	switch kind {
	case schema.DispatchRun:
		params["driver_field"] = cfg.DriverField
		params["cost_field"] = cfg.CostField
		params["percentile"] = cfg.Percentile
		params["name"] = cfg.TaskName
	case schema.WorkersRun:
		params["progress_field"] = cfg.ProgressField
		params["state_fields"] = cfg.StateFields
	}
	return params
}

// beginRun opens a history entry and stores its ID in the context.
// Tracking failures are reported and never stop the analysis.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, kind schema.RunKind, source string, start time.Time) context.Context {
	store := historyStore(mgr)
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(kind, source, start, runParams(cfg, kind))
	if err != nil {
		logTrackingError("begin run", source, err)
		return ctx
	}
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}
	return ctx
}

// recordDispatch stores the partitioned costs and closes the run.
func recordDispatch(ctx context.Context, mgr contract.HistoryManager, result *schema.DispatchResult) {
	store := historyStore(mgr)
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if err := store.RecordUnitCosts(runID, result.Partitioned); err != nil {
		logTrackingError("record unit costs", result.Source, err)
	}
	if err := store.EndRun(runID, time.Now(), result.RowsRead, len(result.Reconstructed.Units)); err != nil {
		logTrackingError("end run", result.Source, err)
	}
}

// recordWorkers stores the filled states and closes the run.
func recordWorkers(ctx context.Context, mgr contract.HistoryManager, result *schema.WorkerResult) {
	store := historyStore(mgr)
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if err := store.RecordWorkerStates(runID, result.Series); err != nil {
		logTrackingError("record worker states", result.Source, err)
	}
	if err := store.EndRun(runID, time.Now(), result.RowsRead, len(result.Series.Points)); err != nil {
		logTrackingError("end run", result.Source, err)
	}
}

// endFailedRun closes a run whose analysis failed, with nothing read or written.
func endFailedRun(ctx context.Context, mgr contract.HistoryManager, source string) {
	store := historyStore(mgr)
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if err := store.EndRun(runID, time.Now(), 0, 0); err != nil {
		logTrackingError("end run", source, err)
	}
}

func historyStore(mgr contract.HistoryManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}

// logTrackingError logs history tracking errors without interrupting the analysis.
func logTrackingError(operation, source string, err error) {
	contract.Logger().Warn("history tracking failed",
		zap.String("operation", operation),
		zap.String("source", source),
		zap.Error(err))
}
