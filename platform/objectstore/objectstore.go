// Package objectstore provides a small S3-compatible object storage client.
// It is domain-agnostic; the blacklist loader and the CLI publisher use it.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectTooLarge is returned when an object exceeds the configured limit.
var ErrObjectTooLarge = errors.New("object exceeds maximum size")

// Config defines the configuration interface for object storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxObjectSize() int64
	IsMinIOEnabled() bool
}

// MinIOStore reads and writes small objects on MinIO.
type MinIOStore struct {
	client        *minio.Client
	maxObjectSize int64
}

// NewMinIOStore creates a new MinIO-backed store.
func NewMinIOStore(cfg Config) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{
		client:        client,
		maxObjectSize: cfg.GetMinIOMaxObjectSize(),
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOStore) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	return nil
}

// ReadObject downloads an object fully into memory, refusing objects larger
// than the configured maximum.
func (s *MinIOStore) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object %s/%s: %w", bucket, key, err)
	}
	if err := s.ValidateObjectSize(info.Size); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, info.Size+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}
	if err := s.ValidateObjectSize(int64(len(data))); err != nil {
		return nil, err
	}
	return data, nil
}

// WriteObject uploads data under key, creating the bucket when needed.
func (s *MinIOStore) WriteObject(ctx context.Context, bucket, key, contentType string, data []byte) error {
	if err := s.ValidateObjectSize(int64(len(data))); err != nil {
		return err
	}
	if err := s.EnsureBucketExists(ctx, bucket); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ValidateObjectSize checks if the object size is within limits.
func (s *MinIOStore) ValidateObjectSize(sizeBytes int64) error {
	return validateSize(sizeBytes, s.maxObjectSize)
}

func validateSize(sizeBytes, max int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("object size must be greater than 0")
	}
	if max > 0 && sizeBytes > max {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrObjectTooLarge, sizeBytes, max)
	}
	return nil
}
