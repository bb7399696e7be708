package perflog

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/huangsam/perflog/internal/contract"
)

// maxLineBytes bounds a single log line. Performance logs have a few dozen columns.
const maxLineBytes = 1 << 20

type options struct {
	marker    string
	lookahead int
	location  string
}

// Option customizes how the log is read.
type Option func(*options)

// WithMarker sets the comment marker that introduces the header and comment lines.
func WithMarker(marker string) Option {
	return func(o *options) { o.marker = marker }
}

// WithLookahead sets how many non-header lines may precede the header.
func WithLookahead(n int) Option {
	return func(o *options) { o.lookahead = n }
}

// WithLocation names the log in error messages.
func WithLocation(location string) Option {
	return func(o *options) { o.location = location }
}

func buildOptions(opts []Option) options {
	o := options{
		marker:    contract.DefaultMarker,
		lookahead: contract.DefaultLookahead,
		location:  "log",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// headerFields strips every leading marker and returns the names on the line.
func headerFields(line, marker string) []string {
	rest := line
	for strings.HasPrefix(rest, marker) {
		rest = rest[len(marker):]
	}
	return strings.Fields(rest)
}

func firstDuplicate(fields []string) (string, bool) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			return f, true
		}
		seen[f] = struct{}{}
	}
	return "", false
}

// ReadHeader scans r from its current position for the header line.
// Each line that is not a usable header uses up one unit of the lookahead budget,
// and the scan fails with a FormatError once the budget is spent.
func ReadHeader(r io.Reader, opts ...Option) (Header, error) {
	o := buildOptions(opts)
	scanner := newScanner(r)

	budget := o.lookahead
	scanned := 0
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.HasPrefix(text, o.marker) {
			if fields := headerFields(text, o.marker); len(fields) > 0 {
				if dup, ok := firstDuplicate(fields); ok {
					return Header{}, fmt.Errorf("%s line %d: duplicate field %q in header", o.location, line, dup)
				}
				return Header{Fields: fields, Marker: o.marker, Line: line}, nil
			}
		}
		scanned++
		budget--
		if budget < 1 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Header{}, fmt.Errorf("scanning %s for header: %w", o.location, err)
	}
	return Header{}, &contract.FormatError{Location: o.location, Scanned: scanned, Budget: o.lookahead}
}

// Records lazily yields the data rows of r bound to the header's fields.
// r must be positioned at the start of the log: the preamble up to the header
// line is skipped, as are comment lines and blank lines. The first malformed row
// yields a ParseError and ends the sequence.
func Records(r io.Reader, h Header, opts ...Option) iter.Seq2[LogRecord, error] {
	o := buildOptions(opts)
	if h.Marker != "" {
		o.marker = h.Marker
	}

	return func(yield func(LogRecord, error) bool) {
		scanner := newScanner(r)
		line, row := 0, 0
		for scanner.Scan() {
			line++
			if line <= h.Line {
				continue
			}
			text := scanner.Text()
			if strings.HasPrefix(text, o.marker) {
				continue
			}
			parts := strings.Fields(text)
			if len(parts) == 0 {
				continue
			}

			ints, err := parseRow(parts, h.Fields, line)
			if err != nil {
				yield(LogRecord{}, err)
				return
			}
			row++
			if !yield(newLogRecord(row, line, h.Fields, ints), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(LogRecord{}, fmt.Errorf("reading %s: %w", o.location, err))
		}
	}
}

func parseRow(parts, fields []string, line int) ([]int64, error) {
	if len(parts) != len(fields) {
		return nil, &contract.ParseError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d values, found %d", len(fields), len(parts)),
		}
	}
	ints := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, &contract.ParseError{
				Line:   line,
				Column: i + 1,
				Field:  fields[i],
				Value:  p,
				Reason: "not an integer",
				Err:    err,
			}
		}
		ints[i] = v
	}
	return ints, nil
}

// Collect drains a record sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[LogRecord, error]) ([]LogRecord, error) {
	var out []LogRecord
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
