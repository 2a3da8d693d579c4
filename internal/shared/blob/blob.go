package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// Store is the blob storage boundary used for attachments and generated
// documents. Callers treat upload failure as non-fatal.
type Store interface {
	Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) (string, error)
}

// MinioStore is the minio-backed implementation.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

// Put uploads an object and returns its bucket-relative URL.
func (s *MinioStore) Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("blob storage not configured")
	}
	_, err := s.client.PutObject(ctx, s.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return fmt.Sprintf("/%s/%s", s.bucket, path), nil
}
