package algo

import (
	"github.com/huangsam/perflog/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize describes one band of a partition. total is the cost of the whole
// series and is used for the band's share; a zero total yields a zero share.
func Summarize(band schema.Band, units []schema.UnitCost, total float64) schema.BandSummary {
	s := schema.BandSummary{Band: band, Count: len(units)}
	if len(units) == 0 {
		return s
	}
	values := make([]float64, len(units))
	for i, u := range units {
		values[i] = u.Value
	}
	s.Sum = floats.Sum(values)
	s.Mean = stat.Mean(values, nil)
	s.Max = floats.Max(values)
	if total != 0 {
		s.Share = s.Sum / total
	}
	return s
}

// SummarizePartition returns the typical and tail summaries of a partition.
func SummarizePartition(ps schema.PartitionedSeries) (typical, tail schema.BandSummary) {
	total := 0.0
	for _, u := range ps.Below {
		total += u.Value
	}
	for _, u := range ps.AtOrAbove {
		total += u.Value
	}
	return Summarize(schema.TypicalBand, ps.Below, total), Summarize(schema.TailBand, ps.AtOrAbove, total)
}
