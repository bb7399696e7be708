// Package series reconstructs dense per-unit series from the sparse samples of a performance log.
package series

import (
	"fmt"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
)

// MaxUnits bounds the size of a reconstructed series so a corrupt driver
// counter cannot exhaust memory.
const MaxUnits = 1 << 26

// ExtractCounters pulls a driver/dependent pair out of every record.
func ExtractCounters(header perflog.Header, records []perflog.LogRecord, driverField, dependentField string) (schema.CounterSeries, error) {
	if err := header.Require(driverField, dependentField); err != nil {
		return schema.CounterSeries{}, err
	}
	cs := schema.CounterSeries{
		DriverField:    driverField,
		DependentField: dependentField,
		Samples:        make([]schema.CounterSample, 0, len(records)),
	}
	for _, rec := range records {
		d, _ := rec.Get(driverField)
		v, _ := rec.Get(dependentField)
		cs.Samples = append(cs.Samples, schema.CounterSample{Row: rec.Row, Driver: d, Dependent: v})
	}
	return cs, nil
}

// Reconstruct spreads each increment of the dependent counter evenly over the
// driver units it covers.
//
// Samples whose dependent counter is still zero are dropped, and runs of equal
// driver values collapse to the last sample of the run. Between two consecutive
// collapsed samples (d0, v0) and (d1, v1), every unit in [d0, d1) is attributed
// (v1-v0)/(d1-d0). The final driver value has no successor and is never emitted.
func Reconstruct(cs schema.CounterSeries, policy schema.MonotonicPolicy) (schema.ReconstructedSeries, error) {
	collapsed, err := collapse(cs, policy)
	if err != nil {
		return schema.ReconstructedSeries{}, err
	}

	rs := schema.ReconstructedSeries{
		DriverField:    cs.DriverField,
		DependentField: cs.DependentField,
		Units:          []schema.UnitCost{},
		Collapsed:      collapsed,
	}
	if len(collapsed) < 2 {
		return rs, nil
	}

	total, err := driverSpan(cs.DriverField, collapsed[0].Driver, collapsed[len(collapsed)-1].Driver)
	if err != nil {
		return schema.ReconstructedSeries{}, err
	}
	rs.Units = make([]schema.UnitCost, 0, total)

	for i := 1; i < len(collapsed); i++ {
		prev, cur := collapsed[i-1], collapsed[i]
		gap, err := driverSpan(cs.DriverField, prev.Driver, cur.Driver)
		if err != nil {
			return schema.ReconstructedSeries{}, err
		}
		per := float64(increment(prev.Dependent, cur.Dependent)) / float64(gap)
		for u := prev.Driver; u < cur.Driver; u++ {
			rs.Units = append(rs.Units, schema.UnitCost{Unit: u, Value: per})
		}
	}
	return rs, nil
}

// driverSpan returns to-from without wrapping around int64. Spans that run
// backwards or cover more than MaxUnits values are an error.
func driverSpan(field string, from, to int64) (int64, error) {
	span := uint64(to) - uint64(from)
	if to < from || span > MaxUnits {
		return 0, fmt.Errorf("field %q spans %d to %d, more than the limit of %d units", field, from, to, MaxUnits)
	}
	return int64(span), nil
}

// increment is the growth of a counter from prev to cur, zero when it shrank.
// The difference is taken in uint64, which holds any non-negative int64 difference.
func increment(prev, cur int64) uint64 {
	if cur < prev {
		return 0
	}
	return uint64(cur) - uint64(prev)
}

// collapse drops zero samples and keeps one sample per driver value.
// Under the reject policy any decrease is an error; under clamp a sample whose
// driver goes backwards is dropped and a lower dependent value becomes the new baseline.
func collapse(cs schema.CounterSeries, policy schema.MonotonicPolicy) ([]schema.CounterSample, error) {
	out := make([]schema.CounterSample, 0, len(cs.Samples))
	for _, s := range cs.Samples {
		if s.Dependent == 0 {
			continue
		}
		if len(out) == 0 {
			out = append(out, s)
			continue
		}

		last := out[len(out)-1]
		if policy != schema.ClampPolicy {
			if s.Driver < last.Driver {
				return nil, &contract.NonMonotonicError{Field: cs.DriverField, Row: s.Row, Previous: last.Driver, Current: s.Driver}
			}
			if s.Dependent < last.Dependent {
				return nil, &contract.NonMonotonicError{Field: cs.DependentField, Row: s.Row, Previous: last.Dependent, Current: s.Dependent}
			}
		}

		switch {
		case s.Driver == last.Driver:
			out[len(out)-1] = s
		case s.Driver > last.Driver:
			out = append(out, s)
		}
	}
	return out, nil
}
