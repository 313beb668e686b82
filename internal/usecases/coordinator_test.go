package usecases

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzone/internal/domain/dto"
	"dropzone/pkg/constants"
	"dropzone/pkg/errors"
)

func newCoordinatorFixture(t *testing.T, maxSessions int) (Coordinator, *managerFixture) {
	t.Helper()
	fx := newManagerFixture(t, defaultPolicy())
	return NewCoordinator(fx.manager, maxSessions), fx
}

func TestCoordinatorAdmissionCap(t *testing.T) {
	coordinator, _ := newCoordinatorFixture(t, 1)
	ctx := context.Background()

	first, err := coordinator.CreateSession(ctx, dto.CreateSessionRequest{FileName: "a.bin", DeclaredSize: 10})
	require.NoError(t, err)

	_, err = coordinator.CreateSession(ctx, dto.CreateSessionRequest{FileName: "b.bin", DeclaredSize: 10})
	require.ErrorIs(t, err, errors.ErrOverloaded(nil))

	// aborting the first session frees the slot
	require.NoError(t, coordinator.Abort(ctx, first.ID))
	_, err = coordinator.CreateSession(ctx, dto.CreateSessionRequest{FileName: "b.bin", DeclaredSize: 10})
	require.NoError(t, err)
}

func TestCoordinatorConcurrentCreatesRespectCap(t *testing.T) {
	const maxActive = 4
	coordinator, _ := newCoordinatorFixture(t, maxActive)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted, rejected := 0, 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := coordinator.CreateSession(ctx, dto.CreateSessionRequest{
				FileName:     fmt.Sprintf("f-%d.bin", i),
				DeclaredSize: 10,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, errors.ErrOverloaded(nil))
				rejected++
			} else {
				admitted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, maxActive, admitted)
	assert.Equal(t, 12, rejected)
}

func TestCoordinatorConcurrentChunksOneSession(t *testing.T) {
	coordinator, fx := newCoordinatorFixture(t, 0)
	ctx := context.Background()

	const chunkSize, chunkCount = 64, 16
	content := make([]byte, chunkSize*chunkCount)
	for i := range content {
		content[i] = byte(i % 251)
	}

	session, err := coordinator.CreateSession(ctx, dto.CreateSessionRequest{
		FileName:     "big.bin",
		DeclaredSize: int64(len(content)),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < chunkCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := int64(i * chunkSize)
			end := start + chunkSize
			_, err := coordinator.ReceiveChunk(ctx, session.ID, start, end, content[start:end], "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	resp, err := coordinator.Finalize(ctx, session.ID)
	require.NoError(t, err)

	rc, err := fx.store.Get(ctx, resp.ObjectRef)
	require.NoError(t, err)
	defer rc.Close()
	assembled, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, assembled)
}

func TestCoordinatorReap(t *testing.T) {
	coordinator, fx := newCoordinatorFixture(t, 0)
	ctx := context.Background()

	session, err := coordinator.CreateSession(ctx, dto.CreateSessionRequest{FileName: "a.bin", DeclaredSize: 10})
	require.NoError(t, err)
	_, err = coordinator.ReceiveChunk(ctx, session.ID, 0, 4, []byte("abcd"), "")
	require.NoError(t, err)

	// zero windows: the session is aborted as stale, then collected
	coordinator.Reap(ctx, 0, 0)

	_, err = coordinator.Status(ctx, session.ID)
	require.ErrorIs(t, err, errors.ErrSessionNotFound(nil))
	assert.Equal(t, []string{session.ID}, fx.releaser.released)
}

func TestCoordinatorReapConcurrentWithChunks(t *testing.T) {
	coordinator, fx := newCoordinatorFixture(t, 8)
	ctx := context.Background()

	const chunkSize, chunkCount = 64, 32
	session, err := coordinator.CreateSession(ctx, dto.CreateSessionRequest{
		FileName:     "live.bin",
		DeclaredSize: chunkSize * chunkCount,
	})
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			coordinator.Reap(ctx, time.Hour, time.Hour)
			extra, err := coordinator.CreateSession(ctx, dto.CreateSessionRequest{
				FileName:     fmt.Sprintf("extra-%d.bin", i),
				DeclaredSize: 10,
			})
			if err == nil {
				_ = coordinator.Abort(ctx, extra.ID)
			}
		}
	}()

	for i := 0; i < chunkCount; i++ {
		start := int64(i * chunkSize)
		_, err := coordinator.ReceiveChunk(ctx, session.ID, start, start+chunkSize, make([]byte, chunkSize), "")
		assert.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	// the live session is never mistaken for a stale one
	status, err := coordinator.Status(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusReceiving, status.Status)
	assert.Equal(t, float64(1), status.Progress)
	assert.Equal(t, 1, fx.manager.CountReceiving())
}
