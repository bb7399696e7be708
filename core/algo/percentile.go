// Package algo has the statistics used to split reconstructed costs into bands.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/perflog/schema"
)

// Percentile returns the p-th percentile of values by linear interpolation
// between the two nearest order statistics, at rank h = (n-1)*p/100.
// p is clamped to [0, 100]. It returns 0 for empty input and never modifies values.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p = min(max(p, 0), 100)
	h := float64(len(sorted)-1) * p / 100
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Partition splits a reconstructed series at its p-th percentile.
// Units strictly below the threshold go to Below, the rest to AtOrAbove, both
// in unit order. When every value is equal the threshold equals that value and
// the whole series goes to Below, leaving the tail empty.
func Partition(rs schema.ReconstructedSeries, p float64) schema.PartitionedSeries {
	ps := schema.PartitionedSeries{
		Percentile: p,
		Below:      []schema.UnitCost{},
		AtOrAbove:  []schema.UnitCost{},
	}
	if len(rs.Units) == 0 {
		return ps
	}

	values := rs.Values()
	ps.Threshold = Percentile(values, p)

	if slices.Min(values) == slices.Max(values) {
		ps.Below = slices.Clone(rs.Units)
		return ps
	}
	for _, u := range rs.Units {
		if u.Value < ps.Threshold {
			ps.Below = append(ps.Below, u)
		} else {
			ps.AtOrAbove = append(ps.AtOrAbove, u)
		}
	}
	return ps
}
