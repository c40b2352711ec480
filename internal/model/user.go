package model

import "time"

// User is the account entity referenced by documents, shares, and audit entries.
// This service never creates or mutates users; rows are provisioned by the
// surrounding identity system and read here to resolve usernames and the
// admin capability.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
