package perflog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource serves a log from memory and counts how often it was opened.
type memSource struct {
	data    string
	opens   int
	openErr error
}

func (m *memSource) Open(_ context.Context) (io.ReadCloser, error) {
	m.opens++
	if m.openErr != nil {
		return nil, m.openErr
	}
	return io.NopCloser(strings.NewReader(m.data)), nil
}

func (m *memSource) Location() string   { return "mem://performance" }
func (m *memSource) Dir() (string, bool) { return "", false }

var _ contract.Source = &memSource{}

func TestLoadOpensTwice(t *testing.T) {
	src := &memSource{data: "# driver dep\n1 0\n2 0\n4 100\n"}

	log, err := Load(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 2, src.opens)
	assert.Equal(t, "mem://performance", log.Location)
	assert.Equal(t, []string{"driver", "dep"}, log.Header.Fields)
	assert.Len(t, log.Records, 3)
}

func TestLoadErrors(t *testing.T) {
	t.Run("open failure", func(t *testing.T) {
		src := &memSource{openErr: errors.New("no such bucket")}
		_, err := Load(context.Background(), src)
		assert.ErrorContains(t, err, "no such bucket")
	})

	t.Run("not a performance log", func(t *testing.T) {
		src := &memSource{data: strings.Repeat("hello\n", 20)}
		_, err := Load(context.Background(), src, WithLookahead(3))
		var fmtErr *contract.FormatError
		require.True(t, errors.As(err, &fmtErr))
		assert.Equal(t, "mem://performance", fmtErr.Location)
		assert.Equal(t, 3, fmtErr.Scanned)
		assert.Equal(t, 1, src.opens)
	})

	t.Run("bad row", func(t *testing.T) {
		src := &memSource{data: "# a b\n1 2\n3 four\n"}
		_, err := Load(context.Background(), src)
		var parseErr *contract.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, 3, parseErr.Line)
		assert.ErrorContains(t, err, "mem://performance")
	})
}
