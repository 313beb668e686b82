package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
	"dropzone/pkg/errors"
	"dropzone/pkg/token"
)

// LinkRegistry issues, resolves and revokes short share links bound to
// stored files.
type LinkRegistry interface {
	// Issue is idempotent per file: while an unexpired link exists it is
	// returned unchanged instead of minting a new one.
	Issue(ctx context.Context, fileID string) (*entities.ShareLink, error)
	// Resolve maps a short token to its stored file. Expired links
	// resolve to link_expired but stay on record until reaped.
	Resolve(ctx context.Context, shortToken string) (*entities.StoredFile, error)
	// Revoke invalidates a token immediately; unknown tokens are a no-op.
	Revoke(ctx context.Context, shortToken string) error
	List(ctx context.Context) ([]entities.ShareLink, error)
	// ReapExpired purges links that expired more than grace ago.
	ReapExpired(ctx context.Context, grace time.Duration) (int64, error)
}

const mintAttempts = 5

type linkRegistry struct {
	links repositories.LinkStore
	files repositories.FileStore
	ttl   time.Duration
	now   func() time.Time

	// issueMu makes the exists-or-mint sequence atomic across concurrent
	// Issue calls; the store's unique token index backstops collisions.
	issueMu sync.Mutex
}

func NewLinkRegistry(links repositories.LinkStore, files repositories.FileStore, ttl time.Duration) LinkRegistry {
	return &linkRegistry{
		links: links,
		files: files,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *linkRegistry) Issue(ctx context.Context, fileID string) (*entities.ShareLink, error) {
	if _, err := r.files.GetByID(ctx, fileID); err != nil {
		if stderrors.Is(err, repositories.ErrNotFound) {
			return nil, errors.ErrFileNotFound(fmt.Errorf("file %s: %w", fileID, err))
		}
		return nil, errors.ErrInternal(err)
	}

	r.issueMu.Lock()
	defer r.issueMu.Unlock()

	now := r.now()
	if existing, err := r.links.GetActiveByFileID(ctx, fileID, now); err == nil {
		return existing, nil
	} else if !stderrors.Is(err, repositories.ErrNotFound) {
		return nil, errors.ErrInternal(err)
	}

	var lastErr error
	for attempt := 0; attempt < mintAttempts; attempt++ {
		shortToken, err := token.New(token.DefaultLength)
		if err != nil {
			return nil, errors.ErrInternal(err)
		}
		link := &entities.ShareLink{
			ID:         uuid.NewString(),
			FileID:     fileID,
			ShortToken: shortToken,
			CreatedAt:  now,
			ExpiresAt:  now.Add(r.ttl),
		}
		if err := r.links.Create(ctx, link); err != nil {
			lastErr = err
			continue
		}
		return link, nil
	}
	return nil, errors.ErrInternal(fmt.Errorf("could not mint a unique token after %d attempts: %w", mintAttempts, lastErr))
}

func (r *linkRegistry) Resolve(ctx context.Context, shortToken string) (*entities.StoredFile, error) {
	link, err := r.links.GetByToken(ctx, shortToken)
	if err != nil {
		if stderrors.Is(err, repositories.ErrNotFound) {
			return nil, errors.ErrLinkNotFound(fmt.Errorf("token %s: %w", shortToken, err))
		}
		return nil, errors.ErrInternal(err)
	}
	if link.Expired(r.now()) {
		return nil, errors.ErrLinkExpired(fmt.Errorf("token %s expired at %s", shortToken, link.ExpiresAt))
	}

	file, err := r.files.GetByID(ctx, link.FileID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrNotFound) {
			return nil, errors.ErrLinkNotFound(fmt.Errorf("file %s behind token %s is gone", link.FileID, shortToken))
		}
		return nil, errors.ErrInternal(err)
	}
	return file, nil
}

func (r *linkRegistry) Revoke(ctx context.Context, shortToken string) error {
	if err := r.links.DeleteByToken(ctx, shortToken); err != nil {
		return errors.ErrInternal(err)
	}
	return nil
}

func (r *linkRegistry) List(ctx context.Context) ([]entities.ShareLink, error) {
	links, err := r.links.List(ctx)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	return links, nil
}

func (r *linkRegistry) ReapExpired(ctx context.Context, grace time.Duration) (int64, error) {
	return r.links.DeleteExpiredBefore(ctx, r.now().Add(-grace))
}
