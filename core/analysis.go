package core

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/huangsam/perflog/core/algo"
	"github.com/huangsam/perflog/core/series"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
	"go.uber.org/zap"
)

// loadLog reads the whole log with the reader options from cfg.
func loadLog(ctx context.Context, cfg *contract.Config, src contract.Source) (*perflog.Log, error) {
	return perflog.Load(ctx, src,
		perflog.WithMarker(cfg.Marker),
		perflog.WithLookahead(cfg.Lookahead),
	)
}

// logAnalysisHeader prints which log is being analyzed.
func logAnalysisHeader(ctx context.Context, cfg *contract.Config, kind schema.RunKind, location string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.UseEmojis {
		fmt.Fprintf(os.Stderr, "🔎 Log: %s (Mode: %s)\n", location, kind)
		return
	}
	fmt.Fprintf(os.Stderr, "Log: %s (Mode: %s)\n", location, kind)
}

// GetDispatchResults reconstructs the per-unit dispatch cost and splits it at
// the configured percentile.
func GetDispatchResults(ctx context.Context, cfg *contract.Config, src contract.Source) (*schema.DispatchResult, error) {
	start := time.Now()
	lg, err := loadLog(ctx, cfg, src)
	if err != nil {
		return nil, err
	}

	cs, err := series.ExtractCounters(lg.Header, lg.Records, cfg.DriverField, cfg.CostField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lg.Location, err)
	}
	rs, err := series.Reconstruct(cs, cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lg.Location, err)
	}
	ps := algo.Partition(rs, cfg.Percentile)
	typical, tail := algo.SummarizePartition(ps)

	contract.Logger().Debug("reconstructed dispatch cost",
		zap.String("source", lg.Location),
		zap.Int("samples", len(cs.Samples)),
		zap.Int("collapsed", len(rs.Collapsed)),
		zap.Int("units", len(rs.Units)),
		zap.Float64("threshold", ps.Threshold))

	return &schema.DispatchResult{
		Source:        lg.Location,
		Fields:        slices.Clone(lg.Header.Fields),
		RowsRead:      len(lg.Records),
		Reconstructed: rs,
		Partitioned:   ps,
		Typical:       typical,
		Tail:          tail,
		Elapsed:       time.Since(start),
	}, nil
}

// GetWorkerResults rebuilds the worker state in effect at every unit of progress.
func GetWorkerResults(ctx context.Context, cfg *contract.Config, src contract.Source) (*schema.WorkerResult, error) {
	start := time.Now()
	lg, err := loadLog(ctx, cfg, src)
	if err != nil {
		return nil, err
	}

	raw, err := series.ExtractStates(lg.Header, lg.Records, cfg.ProgressField, cfg.StateFields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lg.Location, err)
	}
	filled, err := series.FillStates(raw, cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lg.Location, err)
	}

	result := &schema.WorkerResult{
		Source:   lg.Location,
		Fields:   slices.Clone(lg.Header.Fields),
		RowsRead: len(lg.Records),
		Series:   filled,
	}
	for _, p := range filled.Points {
		if len(p.Values) > 0 {
			result.MaxWorkers = max(result.MaxWorkers, p.Values[0])
		}
	}
	if n := len(filled.Points); n > 0 {
		result.LastDriver = filled.Points[n-1].Driver
	}

	contract.Logger().Debug("filled worker states",
		zap.String("source", lg.Location),
		zap.Int("rows", len(raw.Points)),
		zap.Int("points", len(filled.Points)),
		zap.Int64("max_workers", result.MaxWorkers))

	result.Elapsed = time.Since(start)
	return result, nil
}
