// Package dbtest holds the behaviour every database backend must share.
package dbtest

import (
	"context"
	"testing"

	"github.com/stableex/sx.dmdvaults/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, it database.Iterator) (keys, values []string) {
	t.Helper()
	defer it.Close()
	for it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	require.NoError(t, it.Error())
	return keys, values
}

// Run exercises db through the database.DB contract.
func Run(t *testing.T, db database.DB) {
	ctx := context.Background()

	t.Run("Read missing key", func(t *testing.T) {
		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Write and overwrite", func(t *testing.T) {
		key := []byte("lifecycle-test")
		require.NoError(t, db.Write(ctx, key, []byte("v1")))

		got, err := db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v1", string(got))

		require.NoError(t, db.Write(ctx, key, []byte("v2")))
		got, err = db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
	})

	t.Run("Delete", func(t *testing.T) {
		key := []byte("delete-test")
		require.NoError(t, db.Write(ctx, key, []byte("value")))
		require.NoError(t, db.Delete(ctx, key))

		_, err := db.Read(ctx, key)
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		// deleting an absent key is not an error
		require.NoError(t, db.Delete(ctx, key))
	})

	t.Run("Batch Operations", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("batch/3"), []byte("old")))

		err := db.Batch(ctx, []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("batch/1"), Value: []byte("one")},
			{Type: database.BatchPut, Key: []byte("batch/2"), Value: []byte("two")},
			{Type: database.BatchDelete, Key: []byte("batch/3")},
		})
		require.NoError(t, err)

		got, err := db.Read(ctx, []byte("batch/2"))
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))

		_, err = db.Read(ctx, []byte("batch/3"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		err = db.Batch(ctx, []database.BatchOperation{{Type: database.BatchOpType(99), Key: []byte("x")}})
		require.Error(t, err)
	})

	t.Run("Iterator range", func(t *testing.T) {
		for _, k := range []string{"iter/a", "iter/b", "iter/c", "iter/d"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("val-"+k)))
		}

		it, err := db.Iterator(ctx, []byte("iter/b"), []byte("iter/d"))
		require.NoError(t, err)
		keys, values := collect(t, it)
		assert.Equal(t, []string{"iter/b", "iter/c"}, keys)
		assert.Equal(t, []string{"val-iter/b", "val-iter/c"}, values)

		it, err = db.Iterator(ctx, []byte("iter/x"), []byte("iter/z"))
		require.NoError(t, err)
		keys, _ = collect(t, it)
		assert.Empty(t, keys)
	})

	t.Run("Iterator without upper bound", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("zz/1"), []byte("1")))
		require.NoError(t, db.Write(ctx, []byte("zz/2"), []byte("2")))

		it, err := db.Iterator(ctx, []byte("zz/"), nil)
		require.NoError(t, err)
		keys, _ := collect(t, it)
		assert.Equal(t, []string{"zz/1", "zz/2"}, keys)
	})

	t.Run("Snapshot isolation", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("snap/a"), []byte("before")))

		snap, err := db.Snapshot(ctx)
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("snap/a"), []byte("after")))
		require.NoError(t, db.Write(ctx, []byte("snap/b"), []byte("new")))

		got, err := snap.Read(ctx, []byte("snap/a"))
		require.NoError(t, err)
		assert.Equal(t, "before", string(got))

		_, err = snap.Read(ctx, []byte("snap/b"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		it, err := snap.Iterator(ctx, []byte("snap/"), []byte("snap0"))
		require.NoError(t, err)
		keys, _ := collect(t, it)
		assert.Equal(t, []string{"snap/a"}, keys)

		require.NoError(t, snap.Close())

		got, err = db.Read(ctx, []byte("snap/a"))
		require.NoError(t, err)
		assert.Equal(t, "after", string(got))
	})
}
