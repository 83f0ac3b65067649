package storage

import (
	"context"
	"io"

	"glimpse/internal/config"
	"glimpse/internal/observability"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs in a single S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *MinioStore) Save(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	key := NewKey(contentTypeExt(contentType))
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		observability.BlobOperations.WithLabelValues("minio", "save", "error").Inc()
		return "", err
	}
	observability.BlobOperations.WithLabelValues("minio", "save", "success").Inc()
	return key, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		observability.BlobOperations.WithLabelValues("minio", "delete", "error").Inc()
		return err
	}
	observability.BlobOperations.WithLabelValues("minio", "delete", "success").Inc()
	return nil
}

func (s *MinioStore) URL(key string) string {
	return "/" + s.bucket + "/" + key
}
