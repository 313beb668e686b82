package queue

import (
	"context"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
	"dropzone/internal/usecases"
)

// InlineReleaser deletes chunk storage synchronously. Used in tests and
// in deployments that run without Redis.
type InlineReleaser struct {
	Store repositories.BlobStore
}

func (r *InlineReleaser) Release(ctx context.Context, sessionID string) error {
	return r.Store.DeletePrefix(ctx, usecases.SessionChunkPrefix(sessionID))
}

func (r *InlineReleaser) DeleteObject(ctx context.Context, objectKey string) error {
	return r.Store.Delete(ctx, objectKey)
}

// NopEventPublisher drops events.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(ctx context.Context, event entities.UploadEvent) error {
	return nil
}
