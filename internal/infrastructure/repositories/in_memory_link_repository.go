package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
)

// InMemoryLinkRepository backs the link registry in tests and single-node
// setups without Postgres. Token uniqueness is enforced under the mutex,
// mirroring the unique index of the gorm implementation.
type InMemoryLinkRepository struct {
	mu      sync.RWMutex
	byToken map[string]*entities.ShareLink
}

func NewInMemoryLinkRepository() *InMemoryLinkRepository {
	return &InMemoryLinkRepository{
		byToken: make(map[string]*entities.ShareLink),
	}
}

func (r *InMemoryLinkRepository) Create(ctx context.Context, link *entities.ShareLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byToken[link.ShortToken]; exists {
		return fmt.Errorf("token %s already taken", link.ShortToken)
	}
	cp := *link
	r.byToken[link.ShortToken] = &cp
	return nil
}

func (r *InMemoryLinkRepository) GetByToken(ctx context.Context, token string) (*entities.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, exists := r.byToken[token]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (r *InMemoryLinkRepository) GetActiveByFileID(ctx context.Context, fileID string, now time.Time) (*entities.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, link := range r.byToken {
		if link.FileID == fileID && !link.Expired(now) {
			cp := *link
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *InMemoryLinkRepository) List(ctx context.Context) ([]entities.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	links := make([]entities.ShareLink, 0, len(r.byToken))
	for _, link := range r.byToken {
		links = append(links, *link)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (r *InMemoryLinkRepository) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, token)
	return nil
}

func (r *InMemoryLinkRepository) DeleteByFileID(ctx context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, link := range r.byToken {
		if link.FileID == fileID {
			delete(r.byToken, tok)
		}
	}
	return nil
}

func (r *InMemoryLinkRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for tok, link := range r.byToken {
		if link.ExpiresAt.Before(cutoff) {
			delete(r.byToken, tok)
			removed++
		}
	}
	return removed, nil
}
