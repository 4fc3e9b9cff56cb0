package storage

import "context"

// ObjectStorage captures the minimal S3-compatible operations the model
// store needs.
type ObjectStorage interface {
	GetObject(ctx context.Context, key string) ([]byte, bool, error)
	PutObject(ctx context.Context, key string, data []byte) error
}
