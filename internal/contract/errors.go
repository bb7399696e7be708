package contract

import (
	"fmt"
	"strings"
)

// FormatError is returned when no header line is found within the lookahead budget.
type FormatError struct {
	Location string
	Scanned  int // non-header lines consumed before giving up
	Budget   int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("could not find fields in %s after %d lines (budget %d); this is probably not a performance log",
		e.Location, e.Scanned, e.Budget)
}

// FieldNotFoundError is returned when a requested field is not in the header.
type FieldNotFoundError struct {
	Field     string
	Available []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found in header (available: %s)", e.Field, strings.Join(e.Available, ", "))
}

// ParseError is returned when a data line cannot be decoded.
type ParseError struct {
	Line   int    // 1-based physical line number
	Column int    // 1-based column, 0 when the whole line is malformed
	Field  string // header field of the column, empty when Column is 0
	Value  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d, column %d (%s): %s %q", e.Line, e.Column, e.Field, e.Reason, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NonMonotonicError is returned when a counter that must never decrease goes backwards.
type NonMonotonicError struct {
	Field    string
	Row      int
	Previous int64
	Current  int64
}

func (e *NonMonotonicError) Error() string {
	return fmt.Sprintf("field %q decreased at row %d (%d -> %d)", e.Field, e.Row, e.Previous, e.Current)
}
