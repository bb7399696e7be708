package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3API is a mock implementation of S3API for testing.
type MockS3API struct {
	mock.Mock
}

var _ S3API = &MockS3API{} // Compile-time check

// GetObject implements the S3API interface.
func (m *MockS3API) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, *params.Bucket, *params.Key)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func TestLocalSource(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "performance")
	require.NoError(t, os.WriteFile(logPath, []byte("# a\n1\n"), 0o644))

	t.Run("directory", func(t *testing.T) {
		src, err := NewLocalSource(dir, "performance")
		require.NoError(t, err)
		assert.Equal(t, logPath, src.Location())
		d, ok := src.Dir()
		assert.True(t, ok)
		assert.Equal(t, dir, d)

		for range 2 {
			rc, err := src.Open(context.Background())
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, "# a\n1\n", string(data))
		}
	})

	t.Run("file path", func(t *testing.T) {
		src, err := NewLocalSource(logPath, "ignored")
		require.NoError(t, err)
		assert.Equal(t, logPath, src.Location())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := NewLocalSource(filepath.Join(dir, "nope"), "performance")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestResolveLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "perf.log"), []byte("# a\n"), 0o644))

	src, err := Resolve(context.Background(), &contract.Config{LogLocation: dir, LogFile: "perf.log"})
	require.NoError(t, err)
	assert.IsType(t, &LocalSource{}, src)
	assert.Equal(t, filepath.Join(dir, "perf.log"), src.Location())
}

func TestResolveHDFS(t *testing.T) {
	src, err := Resolve(context.Background(), &contract.Config{
		LogLocation: "hdfs://namenode:9000/vine-run-info/logs",
		LogFile:     "performance",
		HDFSUser:    "vine",
	})
	require.NoError(t, err)
	require.IsType(t, &HDFSSource{}, src)
	assert.Equal(t, "hdfs://namenode:9000/vine-run-info/logs/performance", src.Location())
	assert.Equal(t, "vine", src.(*HDFSSource).user)

	_, ok := src.Dir()
	assert.False(t, ok)
}

func TestSplitURL(t *testing.T) {
	tests := []struct {
		location  string
		host      string
		path      string
		expectErr bool
	}{
		{"s3://bucket", "bucket", "performance", false},
		{"s3://bucket/", "bucket", "performance", false},
		{"s3://bucket/runs/1", "bucket", "runs/1/performance", false},
		{"s3://bucket/runs/1/performance", "bucket", "runs/1/performance", false},
		{"hdfs://nn:9000/logs/", "nn:9000", "logs/performance", false},
		{"s3:///no-bucket", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			host, p, err := splitURL(tt.location, "performance")
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.path, p)
		})
	}
}

func TestS3SourceOpen(t *testing.T) {
	ctx := context.Background()
	client := &MockS3API{}
	client.On("GetObject", ctx, "bucket", "runs/performance").
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("# a b\n1 2\n"))}, nil).Once()
	client.On("GetObject", ctx, "bucket", "runs/performance").
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("# a b\n1 2\n"))}, nil).Once()

	src := NewS3SourceWithClient(client, "bucket", "runs/performance")
	assert.Equal(t, "s3://bucket/runs/performance", src.Location())

	for range 2 {
		rc, err := src.Open(ctx)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "# a b\n1 2\n", string(data))
	}
	client.AssertExpectations(t)
}

func TestS3SourceOpenError(t *testing.T) {
	ctx := context.Background()
	client := &MockS3API{}
	client.On("GetObject", ctx, "bucket", "performance").Return(nil, errors.New("access denied"))

	_, err := NewS3SourceWithClient(client, "bucket", "performance").Open(ctx)
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, err, "s3://bucket/performance")
}

func TestHDFSSourceConnectError(t *testing.T) {
	src := NewHDFSSource("namenode:9000", "/logs/performance", "hdfs")
	src.connect = func(context.Context, string, string) (hdfsClient, error) {
		return nil, errors.New("connection refused")
	}
	_, err := src.Open(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
