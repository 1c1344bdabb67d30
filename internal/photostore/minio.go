package photostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/kozaktomas/facereg/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO stores photos in a MinIO / S3-compatible bucket.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIO connects to the configured endpoint and creates the bucket if
// it does not exist yet.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("MINIO_ENDPOINT is required for the minio photo backend")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("MINIO_BUCKET is required for the minio photo backend")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	return NewMinIOWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewMinIOWithClient wraps an existing client.
// prefix is prepended to all keys (e.g. "faces/").
func NewMinIOWithClient(client *minio.Client, bucket, prefix string) *MinIO {
	return &MinIO{client: client, bucket: bucket, prefix: prefix}
}

func (s *MinIO) key(ref string) (string, error) {
	if err := validateRef(ref); err != nil {
		return "", err
	}
	return path.Join(s.prefix, ref), nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// Save uploads data under a new unique key.
func (s *MinIO) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	ref := newRef(contentType)
	key, _ := s.key(ref)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	return ref, nil
}

// Open streams a stored photo.
func (s *MinIO) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	key, err := s.key(ref)
	if err != nil {
		return nil, err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat photo: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting photo: %w", err)
	}
	return obj, nil
}

// Delete removes the object. S3 treats removing a missing key as success.
func (s *MinIO) Delete(ctx context.Context, ref string) error {
	key, err := s.key(ref)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
		return fmt.Errorf("removing photo: %w", err)
	}
	return nil
}

// Exists checks whether a photo is stored under ref.
func (s *MinIO) Exists(ctx context.Context, ref string) (bool, error) {
	key, err := s.key(ref)
	if err != nil {
		return false, err
	}
	_, err = s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
