package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docsecure/internal/model"
	"docsecure/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// The audit trail is append-only; this type implements Insert and Query and
// nothing else.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Insert appends one audit entry. The id and timestamp come from database
// defaults so each entry's timestamp reflects its own insertion instant.
func (r *AuditPostgres) Insert(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	const q = `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, action, resource_type, resource_id, details, ip_address, timestamp
	`
	row := r.db.QueryRowContext(ctx, q,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Details,
		entry.IPAddress,
	)
	var out model.AuditEntry
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Action,
		&out.ResourceType,
		&out.ResourceID,
		&out.Details,
		&out.IPAddress,
		&out.Timestamp,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query returns matching entries ordered by timestamp descending with
// LIMIT/OFFSET pagination. The WHERE clause is assembled from the non-zero
// filter fields using numbered placeholders only.
func (r *AuditPostgres) Query(ctx context.Context, f repository.AuditFilter, pq repository.PageQuery) ([]model.AuditEntry, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.UserID != "" {
		add("a.user_id = $%d", f.UserID)
	}
	if f.Action != "" {
		add("a.action = $%d", f.Action)
	}
	if f.ResourceType != "" {
		add("a.resource_type = $%d", f.ResourceType)
	}
	if f.ResourceID != "" {
		add("a.resource_id = $%d", f.ResourceID)
	}
	if !f.Start.IsZero() {
		add("a.timestamp >= $%d", f.Start)
	}
	if !f.End.IsZero() {
		add("a.timestamp <= $%d", f.End)
	}

	q := `
		SELECT a.id, a.user_id, a.action, a.resource_type, a.resource_id, a.details, a.ip_address, a.timestamp, u.username
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.user_id
	`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, pq.Limit)
	q += fmt.Sprintf(" ORDER BY a.timestamp DESC, a.id DESC LIMIT $%d", len(args))
	args = append(args, pq.Offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Action,
			&e.ResourceType,
			&e.ResourceID,
			&e.Details,
			&e.IPAddress,
			&e.Timestamp,
			&e.Username,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
