package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"docsecure/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var shareCols = []string{"id", "token", "document_id", "created_by", "created_at", "expires_at", "is_active"}

func TestSharePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	exp := now.Add(7 * 24 * time.Hour)
	link := &model.ShareLink{
		ID:         "share-uuid",
		Token:      "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		DocumentID: "doc-uuid",
		CreatedBy:  "user-uuid",
		CreatedAt:  now,
		ExpiresAt:  &exp,
		IsActive:   true,
	}

	rows := sqlmock.NewRows(shareCols).
		AddRow(link.ID, link.Token, link.DocumentID, link.CreatedBy, link.CreatedAt, link.ExpiresAt, link.IsActive)

	mock.ExpectQuery("INSERT INTO share_links").
		WithArgs(link.ID, link.Token, link.DocumentID, link.CreatedBy, link.CreatedAt, link.ExpiresAt, link.IsActive).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, link)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, link.Token, result.Token)
	assert.True(t, result.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_FindByToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()

	t.Run("found including deactivated rows", func(t *testing.T) {
		rows := sqlmock.NewRows(shareCols).
			AddRow("share-id", "tok", "doc-id", "user-id", time.Now(), nil, false)

		mock.ExpectQuery("SELECT (.+) FROM share_links WHERE token = ?").
			WithArgs("tok").
			WillReturnRows(rows)

		link, err := repo.FindByToken(ctx, "tok")

		assert.NoError(t, err)
		assert.NotNil(t, link)
		assert.False(t, link.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM share_links WHERE token = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		link, err := repo.FindByToken(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, link)
	})
}

func TestSharePostgres_ListActiveByCreator(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(shareCols).
		AddRow("s1", "tok1", "doc-1", "user-id", time.Now(), nil, true).
		AddRow("s2", "tok2", "doc-2", "user-id", time.Now(), nil, true)

	mock.ExpectQuery("SELECT (.+) FROM share_links WHERE created_by = (.+) AND is_active = true").
		WithArgs("user-id").
		WillReturnRows(rows)

	items, err := repo.ListActiveByCreator(ctx, "user-id")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_Deactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE share_links SET is_active = false WHERE id = ?").
		WithArgs("share-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Deactivate(ctx, "share-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_CountByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM share_links WHERE document_id").
		WithArgs("doc-id").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.CountByDocument(ctx, "doc-id")

	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
