package series

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counters builds a counter series from (driver, dependent) pairs.
func counters(pairs ...[2]int64) schema.CounterSeries {
	cs := schema.CounterSeries{DriverField: "driver", DependentField: "dep"}
	for i, p := range pairs {
		cs.Samples = append(cs.Samples, schema.CounterSample{Row: i + 1, Driver: p[0], Dependent: p[1]})
	}
	return cs
}

func loadRecords(t *testing.T, input string) (perflog.Header, []perflog.LogRecord) {
	t.Helper()
	h, err := perflog.ReadHeader(strings.NewReader(input))
	require.NoError(t, err)
	records, err := perflog.Collect(perflog.Records(strings.NewReader(input), h))
	require.NoError(t, err)
	return h, records
}

func TestReconstructZeroDropAndDedup(t *testing.T) {
	h, records := loadRecords(t, "# driver dep\n1 0\n2 0\n4 100\n4 100\n6 300\n")
	cs, err := ExtractCounters(h, records, "driver", "dep")
	require.NoError(t, err)

	rs, err := Reconstruct(cs, schema.RejectPolicy)
	require.NoError(t, err)

	assert.Equal(t, []schema.CounterSample{
		{Row: 4, Driver: 4, Dependent: 100},
		{Row: 5, Driver: 6, Dependent: 300},
	}, rs.Collapsed)
	assert.Equal(t, []schema.UnitCost{{Unit: 4, Value: 100}, {Unit: 5, Value: 100}}, rs.Units)
}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.CounterSeries
		expected []schema.UnitCost
	}{
		{
			name:     "empty",
			input:    counters(),
			expected: []schema.UnitCost{},
		},
		{
			name:     "all zero dependent",
			input:    counters([2]int64{1, 0}, [2]int64{5, 0}),
			expected: []schema.UnitCost{},
		},
		{
			name:     "single distinct driver",
			input:    counters([2]int64{3, 10}, [2]int64{3, 12}),
			expected: []schema.UnitCost{},
		},
		{
			name:     "dedup keeps last dependent",
			input:    counters([2]int64{1, 10}, [2]int64{1, 20}, [2]int64{3, 30}),
			expected: []schema.UnitCost{{Unit: 1, Value: 5}, {Unit: 2, Value: 5}},
		},
		{
			name:     "uneven division",
			input:    counters([2]int64{0, 1}, [2]int64{3, 2}),
			expected: []schema.UnitCost{{Unit: 0, Value: 1.0 / 3}, {Unit: 1, Value: 1.0 / 3}, {Unit: 2, Value: 1.0 / 3}},
		},
		{
			name:     "flat dependent",
			input:    counters([2]int64{1, 7}, [2]int64{2, 7}, [2]int64{4, 9}),
			expected: []schema.UnitCost{{Unit: 1, Value: 0}, {Unit: 2, Value: 1}, {Unit: 3, Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Reconstruct(tt.input, schema.RejectPolicy)
			require.NoError(t, err)
			assert.InDeltaSlice(t, values(tt.expected), rs.Values(), 1e-9)
			assert.Equal(t, units(tt.expected), units(rs.Units))
		})
	}
}

func TestReconstructNonMonotonic(t *testing.T) {
	driverBack := counters([2]int64{1, 10}, [2]int64{5, 20}, [2]int64{3, 30}, [2]int64{7, 40})
	dependentBack := counters([2]int64{1, 10}, [2]int64{3, 50}, [2]int64{5, 20}, [2]int64{6, 26})

	t.Run("reject driver", func(t *testing.T) {
		_, err := Reconstruct(driverBack, schema.RejectPolicy)
		var nm *contract.NonMonotonicError
		require.True(t, errors.As(err, &nm))
		assert.Equal(t, "driver", nm.Field)
		assert.Equal(t, 3, nm.Row)
		assert.Equal(t, int64(5), nm.Previous)
		assert.Equal(t, int64(3), nm.Current)
	})

	t.Run("reject dependent", func(t *testing.T) {
		_, err := Reconstruct(dependentBack, schema.RejectPolicy)
		var nm *contract.NonMonotonicError
		require.True(t, errors.As(err, &nm))
		assert.Equal(t, "dep", nm.Field)
	})

	t.Run("clamp driver drops row", func(t *testing.T) {
		rs, err := Reconstruct(driverBack, schema.ClampPolicy)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, units(rs.Units))
		assert.InDeltaSlice(t, []float64{2.5, 2.5, 2.5, 2.5, 10, 10}, rs.Values(), 1e-9)
	})

	t.Run("clamp dependent gives zero cost", func(t *testing.T) {
		rs, err := Reconstruct(dependentBack, schema.ClampPolicy)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, units(rs.Units))
		assert.InDeltaSlice(t, []float64{20, 20, 0, 0, 6}, rs.Values(), 1e-9)
	})
}

func TestReconstructExtremeCounters(t *testing.T) {
	t.Run("driver span wraps int64", func(t *testing.T) {
		_, err := Reconstruct(counters([2]int64{math.MinInt64, 1}, [2]int64{math.MaxInt64, 2}), schema.RejectPolicy)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "limit")
	})

	t.Run("driver span over limit", func(t *testing.T) {
		_, err := Reconstruct(counters([2]int64{0, 1}, [2]int64{MaxUnits + 1, 2}), schema.RejectPolicy)
		assert.Error(t, err)
	})

	t.Run("dependent increment wraps int64", func(t *testing.T) {
		rs, err := Reconstruct(counters([2]int64{1, math.MinInt64}, [2]int64{2, math.MaxInt64}), schema.RejectPolicy)
		require.NoError(t, err)
		require.Len(t, rs.Units, 1)
		assert.InEpsilon(t, float64(math.MaxUint64), rs.Units[0].Value, 1e-12)
	})
}

func TestExtractCountersMissingField(t *testing.T) {
	h, records := loadRecords(t, "# a b\n1 2\n")
	_, err := ExtractCounters(h, records, "a", "time_scheduling")
	var nf *contract.FieldNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "time_scheduling", nf.Field)
}

// TestReconstructConservesIncrements checks that the per-unit costs between two
// collapsed samples add back up to the dependent increment, and that the units
// cover exactly [first driver, last driver).
func TestReconstructConservesIncrements(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		var pairs [][2]int64
		d, v := int64(rng.IntN(5)), int64(0)
		for i := 0; i < 40; i++ {
			d += int64(rng.IntN(6))
			v += int64(rng.IntN(1000))
			pairs = append(pairs, [2]int64{d, v})
		}

		rs, err := Reconstruct(counters(pairs...), schema.RejectPolicy)
		require.NoError(t, err)
		if len(rs.Collapsed) < 2 {
			continue
		}

		first := rs.Collapsed[0].Driver
		last := rs.Collapsed[len(rs.Collapsed)-1].Driver
		require.Len(t, rs.Units, int(last-first))
		for i, u := range rs.Units {
			assert.Equal(t, first+int64(i), u.Unit)
		}

		idx := 0
		for i := 1; i < len(rs.Collapsed); i++ {
			prev, cur := rs.Collapsed[i-1], rs.Collapsed[i]
			sum := 0.0
			for ; idx < len(rs.Units) && rs.Units[idx].Unit < cur.Driver; idx++ {
				sum += rs.Units[idx].Value
			}
			assert.InDelta(t, float64(cur.Dependent-prev.Dependent), sum, 1e-6)
		}
	}
}

func values(us []schema.UnitCost) []float64 {
	out := make([]float64, len(us))
	for i, u := range us {
		out[i] = u.Value
	}
	return out
}

func units(us []schema.UnitCost) []int64 {
	out := make([]int64, len(us))
	for i, u := range us {
		out[i] = u.Unit
	}
	return out
}
