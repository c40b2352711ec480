package model

import "time"

// Document represents a stored file in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// Filename is a system-generated opaque key (UUID + original extension) and is
// never derived from user input. OwnerID is immutable after creation.
type Document struct {
	ID               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	ContentType      string     `json:"content_type"`
	Size             int64      `json:"size"`
	StoragePath      string     `json:"storage_path"`
	Description      *string    `json:"description,omitempty"`
	OwnerID          string     `json:"owner_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
