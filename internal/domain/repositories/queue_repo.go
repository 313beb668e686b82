package repositories

import (
	"context"

	"dropzone/internal/domain/entities"
)

// StorageReleaser hands blob deletion off the request path: a session's
// partial chunk storage after abort or reap, and a finalized object's
// blob after its file record is removed. Production wiring enqueues the
// work for the worker process; deletion latency is never client-visible.
type StorageReleaser interface {
	Release(ctx context.Context, sessionID string) error
	DeleteObject(ctx context.Context, objectKey string) error
}

// EventPublisher emits upload progress and status-change events so a UI
// can subscribe instead of polling the status endpoint.
type EventPublisher interface {
	Publish(ctx context.Context, event entities.UploadEvent) error
}
