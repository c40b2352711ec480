package repository

import (
	"context"
	"time"

	"docsecure/internal/model"
)

// AuditFilter narrows an audit query. Zero-valued fields are ignored; any
// subset may be combined.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Start        time.Time
	End          time.Time
}

// AuditRepository defines data access for the append-only audit trail. The
// interface deliberately exposes no update or delete: entries are immutable
// once written.
type AuditRepository interface {
	// Insert appends one audit entry. The timestamp is set by the database at
	// insertion time.
	Insert(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error)

	// Query returns entries matching the filter, ordered by timestamp
	// descending, paginated by offset and limit. The acting username is joined
	// in for display.
	Query(ctx context.Context, f AuditFilter, pq PageQuery) ([]model.AuditEntry, error)
}
