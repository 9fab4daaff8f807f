package bbolt

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

func TestBBoltDB(t *testing.T) {
	manager := NewManager(t.TempDir())
	defer manager.Close()

	db, err := manager.OpenDB("suite")
	require.NoError(t, err)

	dbtest.Run(t, db)
}

func TestManagerLifecycle(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	manager := NewManager(dir)
	db, err := manager.OpenDB("ledger")
	require.NoError(t, err)
	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

	_, err = os.Stat(filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)

	require.NoError(t, manager.CloseDB("ledger"))
	assert.ErrorIs(t, manager.CloseDB("ledger"), database.ErrNamespaceNotFound)

	db, err = manager.OpenDB("ledger")
	require.NoError(t, err)
	defer manager.Close()

	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestIteratorOwnsTransaction(t *testing.T) {
	manager := NewManager(t.TempDir())
	defer manager.Close()
	ctx := context.Background()

	db, err := manager.OpenDB("iter")
	require.NoError(t, err)
	require.NoError(t, db.Write(ctx, []byte("a"), []byte("1")))

	it, err := db.Iterator(ctx, nil, nil)
	require.NoError(t, err)
	require.True(t, it.Next())
	assert.Equal(t, "a", string(it.Key()))
	assert.False(t, it.Next())
	require.NoError(t, it.Close())
	// closing twice is harmless
	require.NoError(t, it.Close())
}
