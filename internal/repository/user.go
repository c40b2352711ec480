package repository

import (
	"context"

	"docsecure/internal/model"
)

// UserRepository reads user rows. Accounts are provisioned by the surrounding
// identity system; this service only resolves them.
type UserRepository interface {
	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)
}
