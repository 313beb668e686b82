package repositories

import (
	"context"
	"time"

	"dropzone/internal/domain/entities"
)

// LinkStore persists share links. Token uniqueness is enforced by the
// store (unique index or equivalent) so concurrent issue calls cannot
// race a colliding token in.
type LinkStore interface {
	Create(ctx context.Context, link *entities.ShareLink) error
	GetByToken(ctx context.Context, token string) (*entities.ShareLink, error)
	// GetActiveByFileID returns the unexpired link for a file, or
	// ErrNotFound when none exists.
	GetActiveByFileID(ctx context.Context, fileID string, now time.Time) (*entities.ShareLink, error)
	List(ctx context.Context) ([]entities.ShareLink, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByFileID(ctx context.Context, fileID string) error
	// DeleteExpiredBefore purges links that expired before cutoff,
	// returning how many were removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
