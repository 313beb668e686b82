package entities

import "time"

const (
	EventChunkAccepted = "chunk_accepted"
	EventStatusChanged = "status_changed"
)

// UploadEvent is published on every accepted chunk and status transition.
type UploadEvent struct {
	SessionID string    `json:"session_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	At        time.Time `json:"at"`
}
