package perflog

import (
	"context"
	"fmt"

	"github.com/huangsam/perflog/internal/contract"
	"go.uber.org/zap"
)

// Log is a fully read performance log.
type Log struct {
	Location string
	Header   Header
	Records  []LogRecord
}

// LoadHeader opens the source once and discovers its header.
func LoadHeader(ctx context.Context, src contract.Source, opts ...Option) (Header, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return Header{}, fmt.Errorf("opening %s: %w", src.Location(), err)
	}
	defer func() { _ = rc.Close() }()

	opts = append([]Option{WithLocation(src.Location())}, opts...)
	return ReadHeader(rc, opts...)
}

// Load reads a log in two passes over independent handles: the first
// discovers the header, the second reopens the source and reads every row.
func Load(ctx context.Context, src contract.Source, opts ...Option) (*Log, error) {
	header, err := LoadHeader(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	contract.Logger().Debug("found header",
		zap.String("source", src.Location()),
		zap.Int("line", header.Line),
		zap.Strings("fields", header.Fields))

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("reopening %s: %w", src.Location(), err)
	}
	defer func() { _ = rc.Close() }()

	opts = append([]Option{WithLocation(src.Location())}, opts...)
	records, err := Collect(Records(rc, header, opts...))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Location(), err)
	}
	contract.Logger().Debug("read records",
		zap.String("source", src.Location()),
		zap.Int("rows", len(records)))

	return &Log{Location: src.Location(), Header: header, Records: records}, nil
}
