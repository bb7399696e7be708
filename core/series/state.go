package series

import (
	"fmt"
	"slices"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
)

// ExtractStates pulls the driver and the state tuple out of every record.
func ExtractStates(header perflog.Header, records []perflog.LogRecord, driverField string, stateFields []string) (schema.StateSeries, error) {
	if len(stateFields) == 0 {
		return schema.StateSeries{}, fmt.Errorf("no state fields given")
	}
	if err := header.Require(append([]string{driverField}, stateFields...)...); err != nil {
		return schema.StateSeries{}, err
	}

	ss := schema.StateSeries{
		DriverField: driverField,
		StateFields: slices.Clone(stateFields),
		Points:      make([]schema.StatePoint, 0, len(records)),
	}
	for _, rec := range records {
		d, _ := rec.Get(driverField)
		values := make([]int64, len(stateFields))
		for i, f := range stateFields {
			values[i], _ = rec.Get(f)
		}
		ss.Points = append(ss.Points, schema.StatePoint{Driver: d, Row: rec.Row, Values: values})
	}
	return ss, nil
}

// FillStates produces one point per driver value between the first and last observed.
//
// A row repeating the previous driver value is skipped. When the driver jumps by
// more than one, every skipped value holds the state of the previous row, and
// the current row follows with its own state.
func FillStates(ss schema.StateSeries, policy schema.MonotonicPolicy) (schema.StateSeries, error) {
	out := schema.StateSeries{
		DriverField: ss.DriverField,
		StateFields: slices.Clone(ss.StateFields),
		Points:      []schema.StatePoint{},
	}
	if len(ss.Points) == 0 {
		return out, nil
	}

	first, last := ss.Points[0].Driver, ss.Points[0].Driver
	for _, p := range ss.Points {
		last = max(last, p.Driver)
	}
	span, err := driverSpan(ss.DriverField, first, last)
	if err != nil {
		return schema.StateSeries{}, err
	}
	out.Points = make([]schema.StatePoint, 0, span+1)

	var prev schema.StatePoint
	for i, p := range ss.Points {
		if i == 0 {
			out.Points = append(out.Points, clonePoint(p, p.Driver))
			prev = p
			continue
		}
		switch {
		case p.Driver == prev.Driver:
			continue
		case p.Driver < prev.Driver:
			if policy == schema.ClampPolicy {
				continue
			}
			return schema.StateSeries{}, &contract.NonMonotonicError{Field: ss.DriverField, Row: p.Row, Previous: prev.Driver, Current: p.Driver}
		}
		for d := prev.Driver + 1; d < p.Driver; d++ {
			out.Points = append(out.Points, clonePoint(prev, d))
		}
		out.Points = append(out.Points, clonePoint(p, p.Driver))
		prev = p
	}
	return out, nil
}

func clonePoint(p schema.StatePoint, driver int64) schema.StatePoint {
	return schema.StatePoint{Driver: driver, Row: p.Row, Values: slices.Clone(p.Values)}
}
