package repositories

import (
	"context"
	"io"
)

// BlobStore is the opaque byte store shared by all sessions. Implementations
// must support independent concurrent writes to distinct keys, and Put must
// publish atomically: a reader never observes a partially written object.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix.
	// Used to release a session's chunk storage in one call.
	DeletePrefix(ctx context.Context, prefix string) error
}
