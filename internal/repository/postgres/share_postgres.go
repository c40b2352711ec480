package postgres

import (
	"context"
	"database/sql"

	"docsecure/internal/model"
	"docsecure/internal/repository"
)

// SharePostgres is a PostgreSQL implementation of repository.ShareRepository.
type SharePostgres struct {
	db *sql.DB
}

// NewSharePostgres creates a new SharePostgres repository.
func NewSharePostgres(db *sql.DB) *SharePostgres {
	return &SharePostgres{db: db}
}

var _ repository.ShareRepository = (*SharePostgres)(nil)

const shareColumns = `id, token, document_id, created_by, created_at, expires_at, is_active`

func scanShareLink(row interface{ Scan(...any) error }) (*model.ShareLink, error) {
	var s model.ShareLink
	if err := row.Scan(
		&s.ID,
		&s.Token,
		&s.DocumentID,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.ExpiresAt,
		&s.IsActive,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new share link row and returns the stored record.
func (r *SharePostgres) Create(ctx context.Context, link *model.ShareLink) (*model.ShareLink, error) {
	const q = `
		INSERT INTO share_links (id, token, document_id, created_by, created_at, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + shareColumns
	row := r.db.QueryRowContext(ctx, q,
		link.ID,
		link.Token,
		link.DocumentID,
		link.CreatedBy,
		link.CreatedAt,
		link.ExpiresAt,
		link.IsActive,
	)
	return scanShareLink(row)
}

// FindByID fetches a single share link by its ID.
func (r *SharePostgres) FindByID(ctx context.Context, id string) (*model.ShareLink, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM share_links
		WHERE id = $1
	`
	return scanShareLink(r.db.QueryRowContext(ctx, q, id))
}

// FindByToken fetches a share link by token, active or not.
func (r *SharePostgres) FindByToken(ctx context.Context, tok string) (*model.ShareLink, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM share_links
		WHERE token = $1
	`
	return scanShareLink(r.db.QueryRowContext(ctx, q, tok))
}

// ListActiveByCreator returns the creator's active share links, newest first.
func (r *SharePostgres) ListActiveByCreator(ctx context.Context, creatorID string) ([]model.ShareLink, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM share_links
		WHERE created_by = $1 AND is_active = true
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ShareLink, 0)
	for rows.Next() {
		s, err := scanShareLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Deactivate flips is_active to false. Every other column is frozen at
// creation, so this is the only UPDATE issued against share_links.
func (r *SharePostgres) Deactivate(ctx context.Context, id string) error {
	const q = `UPDATE share_links SET is_active = false WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CountByDocument returns the number of share links referencing a document.
func (r *SharePostgres) CountByDocument(ctx context.Context, documentID string) (int, error) {
	const q = `SELECT COUNT(*) FROM share_links WHERE document_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, documentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
