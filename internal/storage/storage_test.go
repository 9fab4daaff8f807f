package storage

import (
	"context"
	"testing"

	"github.com/stableex/sx.dmdvaults/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLedger(t *testing.T) {
	ctx := context.Background()

	for _, typ := range []string{"pebble", "leveldb", "bbolt", "memory", "sqlite"} {
		t.Run(typ, func(t *testing.T) {
			ledger, err := OpenLedger(ctx, config.LedgerDBConfig{Type: typ, Path: t.TempDir()})
			require.NoError(t, err)
			defer ledger.Close()

			require.NoError(t, ledger.Write(ctx, []byte("k"), []byte("v")))
			got, err := ledger.Read(ctx, []byte("k"))
			require.NoError(t, err)
			assert.Equal(t, "v", string(got))
		})
	}
}

func TestOpenLedgerUnknownType(t *testing.T) {
	_, err := OpenLedger(context.Background(), config.LedgerDBConfig{Type: "nudb"})
	assert.Error(t, err)
}
