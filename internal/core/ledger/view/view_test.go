package view

import (
	"context"
	"testing"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry/entries"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
	"github.com/stableex/sx.dmdvaults/internal/storage/database"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/leveldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenContract = asset.MustName("eosio.token")
	deosContract  = asset.MustName("eosdmddtoken")
	vaultAccount  = asset.MustName("dvaultproxy1")
	vaultContract = asset.MustName("dmddappvault")

	eos  = asset.ExtendedSymbol{Symbol: asset.MustSymbol("EOS", 4), Contract: tokenContract}
	deos = asset.ExtendedSymbol{Symbol: asset.MustSymbol("DEOS", 4), Contract: deosContract}
)

func setupTestDB(t *testing.T) database.DB {
	manager := leveldb.NewMemManager()
	t.Cleanup(func() {
		_ = manager.Close()
	})
	db, err := manager.OpenDB("ledger")
	require.NoError(t, err)
	return db
}

func supplyRow(amount int64, ext asset.ExtendedSymbol) *entries.CurrencyStat {
	return &entries.CurrencyStat{
		Supply:    entries.NewQuantity(asset.New(amount, ext)),
		MaxSupply: entries.NewQuantity(asset.New(0, ext)),
		Issuer:    ext.Contract,
	}
}

func TestLookupSupply(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	w := NewWriter(db)

	require.NoError(t, w.Put(ctx, keylet.Supply(deosContract, deos.Symbol.Code()), supplyRow(559956259, deos)))

	r := NewStateReader(ctx, db)

	stat, found, err := r.LookupSupply(deosContract, deos.Symbol.Code())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, asset.New(559956259, deos), stat.Supply.Asset(deosContract))

	_, found, err = r.LookupSupply(tokenContract, eos.Symbol.Code())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupBalance(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	w := NewWriter(db)
	r := NewStateReader(ctx, db)

	t.Run("absent balance is zero", func(t *testing.T) {
		bal, err := r.LookupBalance(vaultAccount, tokenContract, eos.Symbol)
		require.NoError(t, err)
		assert.Equal(t, asset.Zero(eos), bal)
	})

	t.Run("stored balance", func(t *testing.T) {
		row := &entries.AccountBalance{Balance: entries.NewQuantity(asset.New(559884608, eos))}
		require.NoError(t, w.Put(ctx, keylet.Balance(vaultAccount, tokenContract, eos.Symbol.Code()), row))

		bal, err := r.LookupBalance(vaultAccount, tokenContract, eos.Symbol)
		require.NoError(t, err)
		assert.Equal(t, "55988.4608 EOS", bal.String())
		assert.Equal(t, eos, bal.Extended())
	})

	t.Run("precision mismatch fails", func(t *testing.T) {
		_, err := r.LookupBalance(vaultAccount, tokenContract, asset.MustSymbol("EOS", 8))
		assert.ErrorIs(t, err, ErrRowMismatch)
	})
}

func TestTableScans(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	w := NewWriter(db)
	r := NewStateReader(ctx, db)

	pending := keylet.PendingTable(vaultContract)

	empty, err := r.TableIsEmpty(pending)
	require.NoError(t, err)
	assert.True(t, empty)

	for _, id := range []uint64{9, 3, 5} {
		row := &entries.PendingRedemption{
			ID:       id,
			Owner:    asset.MustName("alice"),
			Quantity: entries.NewQuantity(asset.New(int64(id*100), deos)),
		}
		require.NoError(t, w.Put(ctx, keylet.Pending(vaultContract, id), row))
	}

	empty, err = r.TableIsEmpty(pending)
	require.NoError(t, err)
	assert.False(t, empty)

	// another contract's table shares nothing with this one
	empty, err = r.TableIsEmpty(keylet.PendingTable(asset.MustName("eosdmdvaults")))
	require.NoError(t, err)
	assert.True(t, empty)

	var first entries.PendingRedemption
	found, err := r.ReadFirst(pending, &first)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(3), first.ID)

	_, err = r.ReadFirst(pending, &entries.StakeRecord{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSnapshotReader(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	w := NewWriter(db)
	key := keylet.Supply(deosContract, deos.Symbol.Code())

	require.NoError(t, w.Put(ctx, key, supplyRow(100, deos)))

	snap, err := db.Snapshot(ctx)
	require.NoError(t, err)
	defer snap.Close()

	require.NoError(t, w.Put(ctx, key, supplyRow(200, deos)))

	stat, found, err := NewStateReader(ctx, snap).LookupSupply(deosContract, deos.Symbol.Code())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(100), stat.Supply.Amount)
}

func TestWriterRejectsBadRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	w := NewWriter(db)

	// key of one table, row of another
	err := w.Put(ctx, keylet.RexPool(0), supplyRow(1, deos))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// primary key of EOS, row of DEOS
	err = w.Put(ctx, keylet.Supply(deosContract, eos.Symbol.Code()), supplyRow(1, deos))
	assert.ErrorIs(t, err, ErrRowMismatch)

	// batches are all or nothing
	err = w.PutAll(ctx, []Row{
		{Key: keylet.Supply(deosContract, deos.Symbol.Code()), Entry: supplyRow(1, deos)},
		{Key: keylet.Stake(vaultContract, vaultAccount), Entry: &entries.StakeRecord{}},
	})
	require.Error(t, err)

	_, found, err := NewStateReader(ctx, db).LookupSupply(deosContract, deos.Symbol.Code())
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, w.Erase(ctx, keylet.Supply(deosContract, deos.Symbol.Code())))
}
