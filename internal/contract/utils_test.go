package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/huangsam/perflog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, TypicalValue, GetPlainLabel(schema.TypicalBand))
	assert.Equal(t, TailValue, GetPlainLabel(schema.TailBand))
	assert.Equal(t, TypicalValue, GetPlainLabel(""))
}

func TestGetColorLabel(t *testing.T) {
	assert.Contains(t, GetColorLabel(schema.TailBand), TailValue)
	assert.Contains(t, GetColorLabel(schema.TypicalBand), TypicalValue)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", TruncatePath("short", 10))
	assert.Equal(t, "...ormance", TruncatePath("/tmp/logs/performance", 10))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.Equal(t, ".perflog_history.db", filepath.Base(GetHistoryDBFilePath()))
}

func TestErrorsUnwrapThroughChain(t *testing.T) {
	_, convErr := strconv.ParseInt("abc", 10, 64)
	parseErr := &ParseError{Line: 3, Column: 2, Field: "time", Value: "abc", Reason: "not an integer", Err: convErr}
	wrapped := fmt.Errorf("reading log: %w", parseErr)

	var target *ParseError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 3, target.Line)
	assert.ErrorIs(t, wrapped, strconv.ErrSyntax)
	assert.Contains(t, wrapped.Error(), "line 3, column 2 (time)")

	lineErr := &ParseError{Line: 7, Reason: "expected 3 values, found 2"}
	assert.Equal(t, "line 7: expected 3 values, found 2", lineErr.Error())

	var fmtErr *FormatError
	assert.True(t, errors.As(fmt.Errorf("x: %w", &FormatError{Location: "performance", Scanned: 10, Budget: 10}), &fmtErr))
	assert.Contains(t, fmtErr.Error(), "not a performance log")

	notFound := &FieldNotFoundError{Field: "x", Available: []string{"a", "b"}}
	assert.Equal(t, `field "x" not found in header (available: a, b)`, notFound.Error())

	nm := &NonMonotonicError{Field: "tasks", Row: 4, Previous: 10, Current: 8}
	assert.Equal(t, `field "tasks" decreased at row 4 (10 -> 8)`, nm.Error())
}
