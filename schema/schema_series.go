package schema

import "time"

// CounterSample is one observed pair of cumulative counters from a single log row.
type CounterSample struct {
	Row       int   `json:"row"`
	Driver    int64 `json:"driver"`
	Dependent int64 `json:"dependent"`
}

// CounterSeries is the ordered sequence of counter samples for a driver/dependent pair.
type CounterSeries struct {
	DriverField    string          `json:"driver_field"`
	DependentField string          `json:"dependent_field"`
	Samples        []CounterSample `json:"samples"`
}

// UnitCost is the dependent quantity attributed to one unit of the driver.
type UnitCost struct {
	Unit  int64   `json:"unit"`
	Value float64 `json:"value"`
}

// ReconstructedSeries holds per-unit costs recovered from a sparse counter series.
// Units are strictly increasing and contiguous between consecutive collapsed samples.
type ReconstructedSeries struct {
	DriverField    string          `json:"driver_field"`
	DependentField string          `json:"dependent_field"`
	Units          []UnitCost      `json:"units"`
	Collapsed      []CounterSample `json:"collapsed"` // zero-dropped, one sample per driver value
}

// Values returns the per-unit costs in unit order.
func (r ReconstructedSeries) Values() []float64 {
	out := make([]float64, len(r.Units))
	for i, u := range r.Units {
		out[i] = u.Value
	}
	return out
}

// PartitionedSeries is a reconstructed series split at a percentile threshold.
type PartitionedSeries struct {
	Percentile float64    `json:"percentile"`
	Threshold  float64    `json:"threshold"`
	Below      []UnitCost `json:"below"`
	AtOrAbove  []UnitCost `json:"at_or_above"`
}

// BandSummary describes one side of a partition.
type BandSummary struct {
	Band  Band    `json:"band"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Share float64 `json:"share"` // fraction of the total cost, 0 when the total is 0
}

// StatePoint is the state tuple in effect at one driver value.
type StatePoint struct {
	Driver int64   `json:"driver"`
	Row    int     `json:"row"` // running index of the log row the state came from, starting at 1
	Values []int64 `json:"values"`
}

// StateSeries is a sequence of instantaneous state tuples keyed by a monotone driver.
type StateSeries struct {
	DriverField string       `json:"driver_field"`
	StateFields []string     `json:"state_fields"`
	Points      []StatePoint `json:"points"`
}

// DispatchResult is the outcome of the dispatch-cost analysis.
type DispatchResult struct {
	Source        string              `json:"source"`
	Fields        []string            `json:"fields"`
	RowsRead      int                 `json:"rows_read"`
	Reconstructed ReconstructedSeries `json:"reconstructed"`
	Partitioned   PartitionedSeries   `json:"partitioned"`
	Typical       BandSummary         `json:"typical"`
	Tail          BandSummary         `json:"tail"`
	Elapsed       time.Duration       `json:"-"`
}

// WorkerResult is the outcome of the worker-state analysis.
type WorkerResult struct {
	Source     string        `json:"source"`
	Fields     []string      `json:"fields"`
	RowsRead   int           `json:"rows_read"`
	Series     StateSeries   `json:"series"`
	MaxWorkers int64         `json:"max_workers"` // largest first state value observed
	LastDriver int64         `json:"last_driver"`
	Elapsed    time.Duration `json:"-"`
}
