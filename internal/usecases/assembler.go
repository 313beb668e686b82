package usecases

import (
	"context"
	"fmt"
	"io"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
	"dropzone/pkg/errors"
	"dropzone/pkg/ranges"
)

// ChunkAssembler tracks which byte ranges of a session have been accepted
// and concatenates the stored chunks into one final object. It is the
// authoritative enforcement point for the disjoint-range invariant.
type ChunkAssembler interface {
	RecordRange(session *entities.UploadSession, start, end int64) error
	IsComplete(session *entities.UploadSession) bool
	// Assemble streams the stored chunks in ascending start order into
	// the session's final object key. The object becomes visible only
	// after every range was written.
	Assemble(ctx context.Context, session *entities.UploadSession) (string, error)
}

type chunkAssembler struct {
	store repositories.BlobStore
}

func NewChunkAssembler(store repositories.BlobStore) ChunkAssembler {
	return &chunkAssembler{store: store}
}

func (a *chunkAssembler) RecordRange(session *entities.UploadSession, start, end int64) error {
	if start < 0 || end <= start || end > session.DeclaredSize {
		return errors.ErrPolicyViolation(fmt.Errorf("range [%d,%d) outside [0,%d)", start, end, session.DeclaredSize))
	}
	if err := session.Received.Add(ranges.Range{Start: start, End: end}); err != nil {
		return errors.ErrRangeConflict(err)
	}
	return nil
}

func (a *chunkAssembler) IsComplete(session *entities.UploadSession) bool {
	return session.Received.Complete(session.DeclaredSize)
}

func (a *chunkAssembler) Assemble(ctx context.Context, session *entities.UploadSession) (string, error) {
	objectKey := ObjectKey(session.FileID)

	pr, pw := io.Pipe()
	go func() {
		var err error
		for _, span := range session.Received.Spans() {
			rc, getErr := a.store.Get(ctx, ChunkKey(session.ID, span.Start))
			if getErr != nil {
				err = fmt.Errorf("read chunk %s: %w", span, getErr)
				break
			}
			_, copyErr := io.Copy(pw, rc)
			rc.Close()
			if copyErr != nil {
				err = fmt.Errorf("copy chunk %s: %w", span, copyErr)
				break
			}
		}
		pw.CloseWithError(err)
	}()

	if err := a.store.Put(ctx, objectKey, pr); err != nil {
		pr.Close()
		return "", errors.ErrStorageUnavailable(err)
	}
	return objectKey, nil
}
