// Package perflog reads the append-only performance log written by the task manager.
//
// A log starts with an optional preamble, followed by a header line that begins
// with a comment marker and names the columns. Every other non-comment line is
// a whitespace-separated row of integers bound positionally to those names.
package perflog

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/huangsam/perflog/internal/contract"
)

// Header is the ordered list of field names found on the marker line.
type Header struct {
	Fields []string
	Marker string
	Line   int // 1-based line number of the header
}

// Index returns the column position of a field.
func (h Header) Index(field string) (int, error) {
	for i, f := range h.Fields {
		if f == field {
			return i, nil
		}
	}
	return -1, &contract.FieldNotFoundError{Field: field, Available: h.Fields}
}

// Require checks that every named field is present.
func (h Header) Require(fields ...string) error {
	for _, f := range fields {
		if _, err := h.Index(f); err != nil {
			return err
		}
	}
	return nil
}

// LogRecord is one data row of the log. Values keep header order.
type LogRecord struct {
	Row    int // 1-based ordinal among data rows
	Line   int // 1-based physical line number
	values *orderedmap.OrderedMap[string, int64]
}

func newLogRecord(row, line int, fields []string, ints []int64) LogRecord {
	m := orderedmap.NewOrderedMap[string, int64]()
	for i, f := range fields {
		m.Set(f, ints[i])
	}
	return LogRecord{Row: row, Line: line, values: m}
}

// Get returns the value of a field.
func (r LogRecord) Get(field string) (int64, bool) {
	if r.values == nil {
		return 0, false
	}
	return r.values.Get(field)
}

// Fields returns the field names in header order.
func (r LogRecord) Fields() []string {
	if r.values == nil {
		return nil
	}
	out := make([]string, 0, r.values.Len())
	for el := r.values.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

// Ints returns the values in header order.
func (r LogRecord) Ints() []int64 {
	if r.values == nil {
		return nil
	}
	out := make([]int64, 0, r.values.Len())
	for el := r.values.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}
