package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzone/internal/domain/entities"
	infra_repo "dropzone/internal/infrastructure/repositories"
	"dropzone/pkg/errors"
	"dropzone/pkg/token"
)

func newRegistryFixture(t *testing.T, ttl time.Duration) (*linkRegistry, *infra_repo.InMemoryFileRepository) {
	t.Helper()
	links := infra_repo.NewInMemoryLinkRepository()
	files := infra_repo.NewInMemoryFileRepository()
	registry := NewLinkRegistry(links, files, ttl).(*linkRegistry)
	return registry, files
}

func storeFile(t *testing.T, files *infra_repo.InMemoryFileRepository, id string) {
	t.Helper()
	require.NoError(t, files.Create(context.Background(), &entities.StoredFile{
		ID:        id,
		Name:      id + ".bin",
		Size:      42,
		ObjectKey: ObjectKey(id),
	}))
}

func TestIssueLinkIdempotentPerFile(t *testing.T) {
	registry, files := newRegistryFixture(t, time.Hour)
	ctx := context.Background()
	storeFile(t, files, "file-1")

	first, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)
	assert.Len(t, first.ShortToken, token.DefaultLength)
	assert.Equal(t, "file-1", first.FileID)

	// while the link is live, issuing again returns the same token
	second, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)
	assert.Equal(t, first.ShortToken, second.ShortToken)

	// a different file gets its own token
	storeFile(t, files, "file-2")
	other, err := registry.Issue(ctx, "file-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ShortToken, other.ShortToken)
}

func TestIssueLinkUnknownFile(t *testing.T) {
	registry, _ := newRegistryFixture(t, time.Hour)
	_, err := registry.Issue(context.Background(), "nope")
	require.ErrorIs(t, err, errors.ErrFileNotFound(nil))
}

func TestResolveLink(t *testing.T) {
	registry, files := newRegistryFixture(t, time.Hour)
	ctx := context.Background()
	storeFile(t, files, "file-1")

	link, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)

	file, err := registry.Resolve(ctx, link.ShortToken)
	require.NoError(t, err)
	assert.Equal(t, "file-1", file.ID)

	_, err = registry.Resolve(ctx, "zzzzzzzz")
	require.ErrorIs(t, err, errors.ErrLinkNotFound(nil))

	// the file behind the token disappears
	require.NoError(t, files.Delete(ctx, "file-1"))
	_, err = registry.Resolve(ctx, link.ShortToken)
	require.ErrorIs(t, err, errors.ErrLinkNotFound(nil))
}

func TestResolveExpiredLink(t *testing.T) {
	registry, files := newRegistryFixture(t, time.Hour)
	ctx := context.Background()
	storeFile(t, files, "file-1")

	issued := time.Now()
	registry.now = func() time.Time { return issued }
	link, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)

	// just before expiry the link still resolves
	registry.now = func() time.Time { return issued.Add(time.Hour - time.Second) }
	_, err = registry.Resolve(ctx, link.ShortToken)
	require.NoError(t, err)

	registry.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = registry.Resolve(ctx, link.ShortToken)
	require.ErrorIs(t, err, errors.ErrLinkExpired(nil))

	// expired means expired, not deleted: the record is still listed
	listed, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// and a fresh Issue mints a new token instead of reusing it
	newLink, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)
	assert.NotEqual(t, link.ShortToken, newLink.ShortToken)
}

func TestRevokeLink(t *testing.T) {
	registry, files := newRegistryFixture(t, time.Hour)
	ctx := context.Background()
	storeFile(t, files, "file-1")

	link, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)

	require.NoError(t, registry.Revoke(ctx, link.ShortToken))
	_, err = registry.Resolve(ctx, link.ShortToken)
	require.ErrorIs(t, err, errors.ErrLinkNotFound(nil))

	// revoking an unknown token is a no-op
	require.NoError(t, registry.Revoke(ctx, "zzzzzzzz"))
}

func TestReapExpiredLinks(t *testing.T) {
	registry, files := newRegistryFixture(t, time.Hour)
	ctx := context.Background()
	storeFile(t, files, "file-1")

	issued := time.Now()
	registry.now = func() time.Time { return issued }
	link, err := registry.Issue(ctx, "file-1")
	require.NoError(t, err)

	// inside the grace window the expired link survives
	registry.now = func() time.Time { return issued.Add(2 * time.Hour) }
	removed, err := registry.ReapExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	registry.now = func() time.Time { return issued.Add(26 * time.Hour) }
	removed, err = registry.ReapExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = registry.Resolve(ctx, link.ShortToken)
	require.ErrorIs(t, err, errors.ErrLinkNotFound(nil))
}
