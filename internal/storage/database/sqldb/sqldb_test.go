package sqldb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stableex/sx.dmdvaults/internal/storage/database"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *Manager {
	t.Helper()
	manager, err := Open(context.Background(), Config{
		Dialect: SQLite,
		DSN:     SQLiteDSN(filepath.Join(t.TempDir(), "state.sqlite")),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = manager.Close()
	})
	return manager
}

func TestSQLite(t *testing.T) {
	manager := setupSQLite(t)

	db, err := manager.OpenDB("suite")
	require.NoError(t, err)

	dbtest.Run(t, db)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("DMDVAULTS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DMDVAULTS_TEST_POSTGRES_DSN not set")
	}

	manager, err := Open(context.Background(), Config{Dialect: Postgres, DSN: dsn})
	require.NoError(t, err)
	defer manager.Close()

	db, err := manager.OpenDB("suite")
	require.NoError(t, err)
	dbtest.Run(t, db)
}

func TestNamespaces(t *testing.T) {
	manager := setupSQLite(t)
	ctx := context.Background()

	a, err := manager.OpenDB("alpha")
	require.NoError(t, err)
	b, err := manager.OpenDB("beta")
	require.NoError(t, err)

	require.NoError(t, a.Write(ctx, []byte("k"), []byte("from-alpha")))

	_, err = b.Read(ctx, []byte("k"))
	assert.ErrorIs(t, err, database.ErrKeyNotFound)

	_, err = manager.OpenDB("drop table; --")
	assert.Error(t, err)

	require.NoError(t, manager.CloseDB("alpha"))
	assert.ErrorIs(t, manager.CloseDB("alpha"), database.ErrNamespaceNotFound)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", SQLite.Placeholder(2))
	assert.Equal(t, "$2", Postgres.Placeholder(2))

	d, err := DialectByName("postgres")
	require.NoError(t, err)
	assert.Equal(t, "BYTEA", d.BlobType)

	_, err = DialectByName("mysql")
	assert.Error(t, err)
}
