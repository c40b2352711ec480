package model

import "time"

// ShareLink grants unauthenticated access to one document until it is revoked
// or expires. Token, DocumentID, and CreatedBy are immutable after creation;
// IsActive is the only field ever mutated (revocation, by the creator only).
type ShareLink struct {
	ID         string     `json:"id"`
	Token      string     `json:"token"`
	DocumentID string     `json:"document_id"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsActive   bool       `json:"is_active"`
}

// IsExpired reports whether the link's expiry is set and lies in the past
// relative to now. Expiry is always computed on read, never stored.
func (s *ShareLink) IsExpired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}

// IsUsable reports whether the link still grants access: active and not expired.
func (s *ShareLink) IsUsable(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}

// SharedDocumentInfo is the public projection of a shared document returned to
// anonymous callers. It intentionally excludes the storage path and the
// internal filename.
type SharedDocumentInfo struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	Description      *string   `json:"description,omitempty"`
	SharedBy         string    `json:"shared_by"`
	CreatedAt        time.Time `json:"created_at"`
}
