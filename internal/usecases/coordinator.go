package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dropzone/internal/domain/dto"
	"dropzone/internal/domain/entities"
	"dropzone/pkg/errors"
)

// Coordinator is the ingestion façade. It adds two guarantees on top of
// the session manager: a global admission cap on Receiving sessions, and
// strict serialization of all operations on any one session. Operations
// on different sessions run in parallel without coordination.
type Coordinator interface {
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*entities.UploadSession, error)
	ReceiveChunk(ctx context.Context, sessionID string, start, end int64, data []byte, expectedSum string) (*dto.ProgressSnapshot, error)
	Finalize(ctx context.Context, sessionID string) (*dto.FinalizeResponse, error)
	Abort(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error)
	// Reap is the periodic sweep: abort stale Receiving sessions, then
	// drop terminal sessions past the retention window.
	Reap(ctx context.Context, staleAfter, retention time.Duration)
}

type coordinator struct {
	manager     SessionManager
	maxSessions int

	// createMu serializes admission decisions so two concurrent creates
	// cannot both squeeze under the cap.
	createMu sync.Mutex

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewCoordinator(manager SessionManager, maxSessions int) Coordinator {
	return &coordinator{
		manager:     manager,
		maxSessions: maxSessions,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (c *coordinator) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*entities.UploadSession, error) {
	c.createMu.Lock()
	defer c.createMu.Unlock()

	if c.maxSessions > 0 && c.manager.CountReceiving() >= c.maxSessions {
		return nil, errors.ErrOverloaded(fmt.Errorf("%d sessions already receiving", c.maxSessions))
	}
	return c.manager.Create(ctx, req.FileName, req.DeclaredSize, req.DeclaredType)
}

func (c *coordinator) ReceiveChunk(ctx context.Context, sessionID string, start, end int64, data []byte, expectedSum string) (snapshot *dto.ProgressSnapshot, err error) {
	c.withSession(sessionID, func() {
		snapshot, err = c.manager.ReceiveChunk(ctx, sessionID, start, end, data, expectedSum)
	})
	return snapshot, err
}

func (c *coordinator) Finalize(ctx context.Context, sessionID string) (resp *dto.FinalizeResponse, err error) {
	c.withSession(sessionID, func() {
		resp, err = c.manager.Finalize(ctx, sessionID)
	})
	return resp, err
}

func (c *coordinator) Abort(ctx context.Context, sessionID string) (err error) {
	c.withSession(sessionID, func() {
		err = c.manager.Abort(ctx, sessionID)
	})
	return err
}

func (c *coordinator) Status(ctx context.Context, sessionID string) (resp *dto.SessionStatusResponse, err error) {
	c.withSession(sessionID, func() {
		resp, err = c.manager.Status(ctx, sessionID)
	})
	return resp, err
}

func (c *coordinator) Reap(ctx context.Context, staleAfter, retention time.Duration) {
	// only the immutable id list is read without a lock; every status and
	// activity read happens inside the session's own lock, so the sweep
	// never races an in-flight chunk write
	for _, id := range c.manager.SessionIDs() {
		var collected bool
		c.withSession(id, func() {
			collected = c.manager.Sweep(ctx, id, staleAfter, retention) == SweepCollected
		})
		if collected {
			c.forget(id)
		}
	}
}

func (c *coordinator) withSession(id string, fn func()) {
	mu := c.lockFor(id)
	mu.Lock()
	defer mu.Unlock()
	fn()
}

func (c *coordinator) lockFor(id string) *sync.Mutex {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	mu, ok := c.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[id] = mu
	}
	return mu
}

func (c *coordinator) forget(id string) {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	delete(c.locks, id)
}
