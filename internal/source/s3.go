package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/huangsam/perflog/internal/contract"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used to read logs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a log stored as an S3 object.
type S3Source struct {
	client S3API
	bucket string
	key    string
}

var _ contract.Source = &S3Source{}

// NewS3Source builds a client from the default AWS configuration chain
// (environment, shared config, instance role).
func NewS3Source(ctx context.Context, bucket, key string) (*S3Source, error) {
	sdkConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return NewS3SourceWithClient(s3.NewFromConfig(sdkConfig), bucket, key), nil
}

// NewS3SourceWithClient uses an existing client.
func NewS3SourceWithClient(client S3API, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Open fetches the object. Each call issues a new GetObject request.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		contract.Logger().Error("Failed to read log from AWS S3.",
			zap.String("bucket", s.bucket), zap.String("key", s.key), zap.Error(err))
		return nil, fmt.Errorf("s3 get %s: %w", s.Location(), err)
	}
	return out.Body, nil
}

// Location returns the s3:// URL of the object.
func (s *S3Source) Location() string { return contract.S3Scheme + s.bucket + "/" + s.key }

// Dir reports that the log has no local directory.
func (s *S3Source) Dir() (string, bool) { return "", false }
