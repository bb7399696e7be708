package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRowsRead int              `json:"total_rows_read"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the perflog_runs table.
type RunRecord struct {
	RunID         int64
	Kind          string
	Source        string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	RowsRead      int32
	PointsWritten int32
	ConfigParams  *string
}

// UnitCostRecord represents a row from the perflog_unit_costs table.
type UnitCostRecord struct {
	RunID int64
	Unit  int64
	Value float64
	Band  string
}
