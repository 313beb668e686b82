package repositories

import (
	"context"

	"dropzone/internal/domain/entities"
)

// FileStore persists metadata of finalized uploads.
type FileStore interface {
	Create(ctx context.Context, file *entities.StoredFile) error
	GetByID(ctx context.Context, id string) (*entities.StoredFile, error)
	// List returns stored files, newest first.
	List(ctx context.Context) ([]entities.StoredFile, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entities.FileStats, error)
	RecordAssemblyFailure(ctx context.Context, failure *entities.AssemblyFailure) error
}
