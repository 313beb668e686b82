package repositories

import (
	"fmt"
	"sync"

	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
)

// InMemorySessionRepository is the live session table: a map keyed by
// session id behind an RWMutex. The per-session exclusivity guarantee
// lives in the coordinator, not here; this lock only protects the map.
type InMemorySessionRepository struct {
	mu   sync.RWMutex
	data map[string]*entities.UploadSession
}

func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		data: make(map[string]*entities.UploadSession),
	}
}

func (r *InMemorySessionRepository) Create(session *entities.UploadSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	r.data[session.ID] = session
	return nil
}

func (r *InMemorySessionRepository) Get(id string) (*entities.UploadSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, exists := r.data[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

func (r *InMemorySessionRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
}

func (r *InMemorySessionRepository) List() []*entities.UploadSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*entities.UploadSession, 0, len(r.data))
	for _, s := range r.data {
		sessions = append(sessions, s)
	}
	return sessions
}
