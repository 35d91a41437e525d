package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig carries the connection parameters for an S3-compatible
// object store.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// MinioStore implements Store over a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinio connects to the object store and ensures the bucket exists.
func NewMinio(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &MinioStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

func (s *MinioStore) Remove(ctx context.Context, paths ...string) ([]string, error) {
	var failed []string
	var errs []error
	for _, p := range paths {
		if err := s.client.RemoveObject(ctx, s.bucket, p, minio.RemoveObjectOptions{}); err != nil {
			failed = append(failed, p)
			errs = append(errs, fmt.Errorf("remove %q: %w", p, err))
		}
	}
	return failed, errors.Join(errs...)
}

func (s *MinioStore) PresignedPut(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectPath, expiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *MinioStore) PublicURL(objectPath string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(objectPath, "/")
}

func (s *MinioStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
