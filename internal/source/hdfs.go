package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/colinmarc/hdfs/v2"
	"github.com/huangsam/perflog/internal/contract"
	"go.uber.org/zap"
)

const hdfsDialTimeout = 30 * time.Second

// HDFSSource reads a log from an HDFS cluster.
type HDFSSource struct {
	namenode string
	path     string
	user     string

	// connect is swapped out in tests.
	connect func(ctx context.Context, namenode, user string) (hdfsClient, error)
}

// hdfsClient is the subset of *hdfs.Client used to read logs.
type hdfsClient interface {
	Open(name string) (*hdfs.FileReader, error)
	Close() error
}

var _ contract.Source = &HDFSSource{}

// NewHDFSSource returns a source for an absolute path on the given namenode.
func NewHDFSSource(namenode, path, user string) *HDFSSource {
	return &HDFSSource{namenode: namenode, path: path, user: user, connect: dialHDFS}
}

func dialHDFS(_ context.Context, namenode, user string) (hdfsClient, error) {
	dialer := &net.Dialer{Timeout: hdfsDialTimeout, KeepAlive: hdfsDialTimeout}
	client, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses:        []string{namenode},
		User:             user,
		NamenodeDialFunc: dialer.DialContext,
		DatanodeDialFunc: dialer.DialContext,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// hdfsReader closes the client together with the file.
type hdfsReader struct {
	io.Reader
	file   io.Closer
	client hdfsClient
}

func (r *hdfsReader) Close() error {
	fileErr := r.file.Close()
	clientErr := r.client.Close()
	if fileErr != nil {
		return fileErr
	}
	return clientErr
}

// Open connects to the namenode and opens the file. Each call uses its own connection.
func (s *HDFSSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := s.connect(ctx, s.namenode, s.user)
	if err != nil {
		contract.Logger().Error("Failed to create HDFS client.", zap.String("namenode", s.namenode), zap.Error(err))
		return nil, fmt.Errorf("connecting to hdfs %s: %w", s.namenode, err)
	}
	file, err := client.Open(s.path)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("hdfs open %s: %w", s.Location(), err)
	}
	return &hdfsReader{Reader: file, file: file, client: client}, nil
}

// Location returns the hdfs:// URL of the file.
func (s *HDFSSource) Location() string { return contract.HDFSScheme + s.namenode + s.path }

// Dir reports that the log has no local directory.
func (s *HDFSSource) Dir() (string, bool) { return "", false }
