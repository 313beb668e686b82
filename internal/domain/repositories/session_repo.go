package repositories

import (
	"errors"

	"dropzone/internal/domain/entities"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// SessionStore indexes live upload sessions by id. Session state is
// process-local; durability begins at the blob store and the stored-file
// registry.
type SessionStore interface {
	Create(session *entities.UploadSession) error
	Get(id string) (*entities.UploadSession, error)
	Delete(id string)
	// List returns a snapshot of all sessions, in no particular order.
	List() []*entities.UploadSession
}
