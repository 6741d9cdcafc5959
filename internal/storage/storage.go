package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

var (
	ErrNotFound = errors.New("media object not found")
	// ErrSignedURLUnsupported is returned by backends that cannot mint
	// provider-native temporary URLs; callers fall back to signed tokens.
	ErrSignedURLUnsupported = errors.New("signed URLs not supported by this backend")
)

// Storage abstracts where product media lives. Save returns the storage key
// under which the object can later be opened or linked.
type Storage interface {
	Save(ctx context.Context, filename, mimeType string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
