package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
	"dropzone/pkg/errors"
)

// FileService serves the stored-file registry behind the upload UI's file
// list, download and stats panels.
type FileService interface {
	List(ctx context.Context) ([]entities.StoredFile, error)
	Get(ctx context.Context, id string) (*entities.StoredFile, error)
	// Download returns the file metadata and a reader over its bytes.
	// The caller closes the reader.
	Download(ctx context.Context, id string) (*entities.StoredFile, io.ReadCloser, error)
	// Delete removes the blob, the metadata record and any share links
	// pointing at the file.
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entities.FileStats, error)
}

type fileService struct {
	files    repositories.FileStore
	links    repositories.LinkStore
	store    repositories.BlobStore
	releaser repositories.StorageReleaser
}

func NewFileService(files repositories.FileStore, links repositories.LinkStore, store repositories.BlobStore, releaser repositories.StorageReleaser) FileService {
	return &fileService{files: files, links: links, store: store, releaser: releaser}
}

func (s *fileService) List(ctx context.Context) ([]entities.StoredFile, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	return files, nil
}

func (s *fileService) Get(ctx context.Context, id string) (*entities.StoredFile, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repositories.ErrNotFound) {
			return nil, errors.ErrFileNotFound(fmt.Errorf("file %s: %w", id, err))
		}
		return nil, errors.ErrInternal(err)
	}
	return file, nil
}

func (s *fileService) Download(ctx context.Context, id string) (*entities.StoredFile, io.ReadCloser, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Get(ctx, file.ObjectKey)
	if err != nil {
		if stderrors.Is(err, repositories.ErrNotFound) {
			return nil, nil, errors.ErrFileNotFound(fmt.Errorf("object %s: %w", file.ObjectKey, err))
		}
		return nil, nil, errors.ErrStorageUnavailable(err)
	}
	return file, rc, nil
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// blob removal goes through the release queue so a slow blob store
	// never stalls the request
	if err := s.releaser.DeleteObject(ctx, file.ObjectKey); err != nil {
		return errors.ErrStorageUnavailable(err)
	}
	if err := s.links.DeleteByFileID(ctx, id); err != nil {
		return errors.ErrInternal(err)
	}
	if err := s.files.Delete(ctx, id); err != nil {
		return errors.ErrInternal(err)
	}
	return nil
}

func (s *fileService) Stats(ctx context.Context) (*entities.FileStats, error) {
	stats, err := s.files.Stats(ctx)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	return stats, nil
}
