package repository

import (
	"context"

	"docsecure/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByOwner returns a paginated list of documents owned by ownerID and
	// the owner's total row count. Cross-user visibility does not exist.
	ListByOwner(ctx context.Context, ownerID string, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. The database cascades the delete to the
	// document's share links. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
