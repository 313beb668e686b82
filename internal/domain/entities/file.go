package entities

import "time"

// StoredFile is the metadata record of a finalized upload. The bytes
// themselves live in the blob store under ObjectKey.
type StoredFile struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	ObjectKey   string    `json:"object_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FileStats backs the stats panel of the upload UI.
type FileStats struct {
	TotalFiles int64 `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
}

// AssemblyFailure records a blob-store fault during finalize so an
// operator can inspect the session and re-trigger finalize.
type AssemblyFailure struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"session_id"`
	FileName  string    `json:"file_name"`
	LastError string    `json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
}
