// Package source opens performance logs from local disk, S3 or HDFS.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/huangsam/perflog/internal/contract"
	"go.uber.org/zap"
)

// Resolve picks the source implementation for the configured log location.
// A location naming a directory or prefix gets cfg.LogFile joined onto it; a
// location already ending in the log file name is used as is.
func Resolve(ctx context.Context, cfg *contract.Config) (contract.Source, error) {
	location := cfg.LogLocation
	switch {
	case strings.HasPrefix(location, contract.S3Scheme):
		bucket, key, err := splitURL(location, cfg.LogFile)
		if err != nil {
			return nil, err
		}
		contract.Logger().Debug("resolved s3 source", zap.String("bucket", bucket), zap.String("key", key))
		return NewS3Source(ctx, bucket, key)
	case strings.HasPrefix(location, contract.HDFSScheme):
		host, name, err := splitURL(location, cfg.LogFile)
		if err != nil {
			return nil, err
		}
		contract.Logger().Debug("resolved hdfs source", zap.String("namenode", host), zap.String("path", name))
		return NewHDFSSource(host, "/"+name, cfg.HDFSUser), nil
	default:
		return NewLocalSource(location, cfg.LogFile)
	}
}

// splitURL returns the host and the object path of a remote location.
func splitURL(location, fileName string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid log location %q: %w", location, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("log location %q has no bucket or namenode", location)
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return u.Host, fileName, nil
	}
	if path.Base(p) == fileName {
		return u.Host, p, nil
	}
	return u.Host, path.Join(p, fileName), nil
}

// LocalSource reads a log from the local filesystem.
type LocalSource struct {
	path string
}

var _ contract.Source = &LocalSource{}

// NewLocalSource returns a source for location, which may be the log file
// itself or the directory holding it.
func NewLocalSource(location, fileName string) (*LocalSource, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("cannot access log location: %w", err)
	}
	if info.IsDir() {
		return &LocalSource{path: filepath.Join(location, fileName)}, nil
	}
	return &LocalSource{path: location}, nil
}

// Open opens the log file from the beginning.
func (s *LocalSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

// Location returns the file path.
func (s *LocalSource) Location() string { return s.path }

// Dir returns the directory containing the log.
func (s *LocalSource) Dir() (string, bool) { return filepath.Dir(s.path), true }
