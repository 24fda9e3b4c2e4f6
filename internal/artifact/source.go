// Package artifact locates and decodes the model and vocabulary artifacts the
// estimator loads at startup.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"estimator/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotFound is returned when a source has no artifact with the given name
var ErrNotFound = errors.New("artifact not found")

// Source opens named artifacts
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Describe identifies the source in logs
	Describe() string
}

// NewSource creates the source selected by cfg.Artifacts.Source
func NewSource(cfg *config.Config) (Source, error) {
	switch cfg.Artifacts.Source {
	case "file":
		return NewFileSource(cfg.Artifacts.Dir), nil
	case "minio":
		return NewMinIOSource(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported artifact source %q", cfg.Artifacts.Source)
	}
}

// FileSource reads artifacts from a local directory
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Open opens dir/name
func (s *FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(s.dir, name))
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return f, nil
}

func (s *FileSource) Describe() string {
	return "file://" + s.dir
}

// objectGetter is the subset of *minio.Client the source needs
type objectGetter interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// MinIOSource reads artifacts from a bucket on an S3-compatible store
type MinIOSource struct {
	client   objectGetter
	bucket   string
	endpoint string
}

// NewMinIOSource creates a source for cfg.Bucket. No request is made until Open.
func NewMinIOSource(cfg config.MinIOConfig) (*MinIOSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinIOSource{client: client, bucket: cfg.Bucket, endpoint: cfg.Endpoint}, nil
}

// Open fetches bucket/name. The object is stat'ed first so a missing key
// surfaces here rather than on the first read.
func (s *MinIOSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", s.bucket, name, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, s.bucket, name)
		}
		return nil, fmt.Errorf("failed to stat object %s/%s: %w", s.bucket, name, err)
	}
	return obj, nil
}

func (s *MinIOSource) Describe() string {
	return fmt.Sprintf("minio://%s/%s", s.endpoint, s.bucket)
}
