package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"google.golang.org/api/option"

	"journalgrader/config"
	"journalgrader/internal/cloud"
)

// ErrObjectNotFound is returned by a Source when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Source reads whole objects from a read-only store.
type Source interface {
	ReadObject(ctx context.Context, key string) ([]byte, error)
}

// S3Source reads objects from one S3 bucket.
type S3Source struct {
	client *s3.Client
	bucket string
}

func NewS3Source(awsCfg aws.Config, endpoint, bucket string) *S3Source {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Source{client: client, bucket: bucket}
}

func (s *S3Source) ReadObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// GCSSource reads objects from one Cloud Storage bucket.
type GCSSource struct {
	client *storage.Client
	bucket string
}

func NewGCSSource(ctx context.Context, bucket string) (*GCSSource, error) {
	client, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeReadOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSource{client: client, bucket: bucket}, nil
}

func (s *GCSSource) ReadObject(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("gs://%s/%s: %w", s.bucket, key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket, key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// LocalSource reads objects from a directory; keys are relative paths.
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

func (s *LocalSource) ReadObject(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Clean("/"+key)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, err
	}
	return data, nil
}

// NewSource builds the object source named by cfg.Assets.Backend. It returns
// nil for backend "none".
func NewSource(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Assets.Backend {
	case config.AssetsBackendS3:
		awsCfg, err := cloud.LoadAWSConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		return NewS3Source(awsCfg, cfg.AWS.Endpoint, cfg.Assets.Bucket), nil
	case config.AssetsBackendGCS:
		return NewGCSSource(ctx, cfg.Assets.Bucket)
	case config.AssetsBackendLocal:
		return NewLocalSource(cfg.Assets.LocalDir), nil
	case config.AssetsBackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported assets backend %q", cfg.Assets.Backend)
	}
}
