package repository

import (
	"context"

	"docsecure/internal/model"
)

// ShareRepository defines data access for share links. Rows are immutable
// after insert except for the is_active flag, which Deactivate flips; no
// other update operation exists.
type ShareRepository interface {
	// Create inserts a new share link row.
	Create(ctx context.Context, link *model.ShareLink) (*model.ShareLink, error)

	// FindByID returns a share link by its ID.
	FindByID(ctx context.Context, id string) (*model.ShareLink, error)

	// FindByToken returns a share link by its token regardless of active state;
	// usability is evaluated by the caller.
	FindByToken(ctx context.Context, tok string) (*model.ShareLink, error)

	// ListActiveByCreator returns the creator's share links with is_active true.
	// Deactivated links are excluded from listing but never deleted.
	ListActiveByCreator(ctx context.Context, creatorID string) ([]model.ShareLink, error)

	// Deactivate sets is_active to false for the given link, leaving every
	// other column untouched.
	Deactivate(ctx context.Context, id string) error

	// CountByDocument returns the number of share links referencing a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)
}
