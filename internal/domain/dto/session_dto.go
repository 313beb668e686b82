package dto

import "dropzone/pkg/ranges"

type CreateSessionRequest struct {
	FileName     string `json:"file_name"`
	DeclaredSize int64  `json:"declared_size"`
	DeclaredType string `json:"declared_type"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// ProgressSnapshot reflects only ranges durably accepted at the time of
// the call.
type ProgressSnapshot struct {
	SessionID    string  `json:"session_id"`
	Status       string  `json:"status"`
	CoveredBytes int64   `json:"covered_bytes"`
	DeclaredSize int64   `json:"declared_size"`
	Progress     float64 `json:"progress"`
}

// SessionStatusResponse additionally carries the accepted and missing
// ranges so a client can resynchronize after a range_conflict.
type SessionStatusResponse struct {
	SessionID    string         `json:"session_id"`
	FileName     string         `json:"file_name"`
	Status       string         `json:"status"`
	Progress     float64        `json:"progress"`
	Received     []ranges.Range `json:"received"`
	Missing      []ranges.Range `json:"missing,omitempty"`
	DeclaredSize int64          `json:"declared_size"`
}

type FinalizeResponse struct {
	ObjectRef   string `json:"object_ref"`
	FileID      string `json:"file_id"`
	ContentType string `json:"content_type"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
