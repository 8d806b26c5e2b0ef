package migration

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations, "sql/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"sql/00001_create_users.sql", "sql/00002_create_stored_files.sql"}, names)

	body, err := fs.ReadFile(migrations, "sql/00002_create_stored_files.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CONSTRAINT stored_files_handle_key UNIQUE (handle)")
}

func TestUp(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()

	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		var gotDir string
		gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
			gotDir = dir
			return nil
		}

		err := Up(context.Background(), db, zerolog.New(&buf), "db-host")
		require.NoError(t, err)
		assert.Equal(t, "sql", gotDir)
		assert.Contains(t, buf.String(), `"event":"db_migration_success"`)
		assert.Contains(t, buf.String(), `"db_host":"db-host"`)
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		gooseUp = func(context.Context, *sql.DB, string) error {
			return errors.New("boom")
		}

		err := Up(context.Background(), db, zerolog.New(&buf), "db-host")
		assert.ErrorContains(t, err, "migrate: boom")
		assert.Contains(t, buf.String(), `"event":"db_migration_failed"`)
	})
}
