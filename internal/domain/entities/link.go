package entities

import "time"

// ShareLink is a short expiring public token resolving to a stored file.
// At most one unexpired link exists per file at a time; ExpiresAt is
// always CreatedAt + the configured TTL.
type ShareLink struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	FileID     string    `json:"file_id" gorm:"type:uuid;index"`
	ShortToken string    `json:"short_token" gorm:"uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (l *ShareLink) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
