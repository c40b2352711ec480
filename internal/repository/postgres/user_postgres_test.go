package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "is_admin", "created_at"}).
			AddRow("user-id", "alice", false, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("user-id").
			WillReturnRows(rows)

		u, err := repo.FindByID(ctx, "user-id")

		assert.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.False(t, u.IsAdmin)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})
}
