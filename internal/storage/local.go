package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// localStorage keeps media files under a single directory. Keys get a uuid
// prefix so repeated uploads of the same filename never collide.
type localStorage struct {
	dir string
}

func NewLocal(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &localStorage{dir: dir}, nil
}

func (l *localStorage) Save(ctx context.Context, filename, mimeType string, r io.Reader) (string, error) {
	key := uuid.NewString() + "-" + filepath.Base(filename)

	f, err := os.Create(filepath.Join(l.dir, key))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (l *localStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// keys are flat filenames; reject anything trying to walk out of the dir
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") || strings.Contains(key, "..") {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(l.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (l *localStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", ErrSignedURLUnsupported
}
