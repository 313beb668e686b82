package entities

import (
	"time"

	"dropzone/pkg/constants"
	"dropzone/pkg/ranges"
)

// UploadSession is one in-progress or completed upload attempt for a
// single logical file. It is exclusively owned by the session manager;
// Received is only mutated under the coordinator's per-session lock.
type UploadSession struct {
	ID             string      `json:"id"`
	FileName       string      `json:"file_name"`
	DeclaredSize   int64       `json:"declared_size"`
	DeclaredType   string      `json:"declared_type"`
	Received       *ranges.Set `json:"-"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	LastActivityAt time.Time   `json:"last_activity_at"`

	// FinalObjectRef is the blob key of the assembled object, set only
	// once the session reaches Completed.
	FinalObjectRef string `json:"final_object_ref,omitempty"`
	// FileID references the stored-file record created at finalize.
	FileID string `json:"file_id,omitempty"`
}

func NewUploadSession(id, fileName string, declaredSize int64, declaredType string, now time.Time) *UploadSession {
	return &UploadSession{
		ID:             id,
		FileName:       fileName,
		DeclaredSize:   declaredSize,
		DeclaredType:   declaredType,
		Received:       ranges.NewSet(),
		Status:         constants.StatusReceiving,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// Progress returns covered bytes / declared size in [0, 1].
func (s *UploadSession) Progress() float64 {
	if s.DeclaredSize == 0 {
		return 0
	}
	return float64(s.Received.Covered()) / float64(s.DeclaredSize)
}

func (s *UploadSession) Terminal() bool {
	return constants.IsTerminal(s.Status)
}
