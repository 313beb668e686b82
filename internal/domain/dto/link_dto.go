package dto

import "time"

type IssueLinkRequest struct {
	FileID string `json:"file_id"`
}

type ShareLinkResponse struct {
	ShortToken string    `json:"short_token"`
	FileID     string    `json:"file_id"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
