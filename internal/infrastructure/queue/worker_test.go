package queue

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzone/internal/domain/repositories"
	"dropzone/internal/infrastructure/storage"
	"dropzone/internal/usecases"
)

func TestWorkerPoolProcessesJobs(t *testing.T) {
	store := storage.NewLocalStorage(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, usecases.ChunkKey("s1", 0), strings.NewReader("a")))
	require.NoError(t, store.Put(ctx, usecases.ChunkKey("s1", 4), strings.NewReader("b")))
	require.NoError(t, store.Put(ctx, usecases.ObjectKey("f1"), strings.NewReader("object")))

	pool := NewWorkerPool(2, store)
	pool.AddJob(Job{Type: JobReleaseChunks, SessionID: "s1"})
	pool.AddJob(Job{Type: JobDeleteObject, ObjectKey: usecases.ObjectKey("f1")})
	pool.Shutdown()

	_, err := store.Get(ctx, usecases.ChunkKey("s1", 0))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Get(ctx, usecases.ChunkKey("s1", 4))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Get(ctx, usecases.ObjectKey("f1"))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestJobRoundTrip(t *testing.T) {
	serialized, err := SerializeJob(Job{Type: JobReleaseChunks, SessionID: "s1"})
	require.NoError(t, err)

	job, err := DeserializeJob(serialized)
	require.NoError(t, err)
	assert.Equal(t, JobReleaseChunks, job.Type)
	assert.Equal(t, "s1", job.SessionID)

	_, err = DeserializeJob("{not json")
	require.Error(t, err)
}
