package storage

import (
	"context"
	"io"
)

// Storage is a blob store addressed by slash separated relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns the content at path. Callers close the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes path. Deleting a missing path succeeds.
	Delete(ctx context.Context, path string) error
}
