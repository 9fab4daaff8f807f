package keylet

import (
	"bytes"
	"testing"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRow(t *testing.T) {
	issuer := asset.MustName("eosdmddtoken")
	code := asset.MustSymbol("DEOS", 4).Code()

	k := Supply(issuer, code)
	assert.Equal(t, entry.TypeCurrencyStat, k.Type)
	assert.Equal(t, code.Raw(), k.Primary())
	assert.True(t, SupplyTable(issuer, code).Contains(k))

	// same inputs, same key
	assert.Equal(t, k, Supply(issuer, code))
	assert.Len(t, k.Bytes(), 32)
}

func TestTablesAreDisjoint(t *testing.T) {
	vault := asset.MustName("dvaultproxy1")
	token := asset.MustName("eosio.token")
	eos := asset.MustSymbol("EOS", 4).Code()

	keys := []Keylet{
		Balance(vault, token, eos),
		Balance(asset.MustName("someoneelse"), token, eos),
		Supply(token, eos),
		RexBalance(vault),
		RexPool(0),
		Stake(asset.MustName("dmddividends"), vault),
		Pending(asset.MustName("dmddappvault"), 0),
	}

	seen := map[[32]byte]bool{}
	for _, k := range keys {
		require.False(t, seen[k.Key], "duplicate key for %s", k.Type)
		seen[k.Key] = true
	}

	assert.False(t, BalanceTable(vault, token).Contains(Balance(asset.MustName("someoneelse"), token, eos)))
	assert.False(t, RexPoolTable().Contains(RexBalance(vault)))
}

func TestTableRange(t *testing.T) {
	table := PendingTable(asset.MustName("dmddappvault"))
	start, end := table.Range()

	for _, id := range []uint64{0, 1, 42, ^uint64(0)} {
		key := table.Row(id).Bytes()
		assert.True(t, bytes.Compare(key, start) >= 0, "row %d below range", id)
		assert.True(t, bytes.Compare(key, end) < 0, "row %d above range", id)
	}

	// rows of other tables fall outside
	other := PendingTable(asset.MustName("eosdmdvaults")).Row(1).Bytes()
	inside := bytes.Compare(other, start) >= 0 && bytes.Compare(other, end) < 0
	assert.False(t, inside)
}

func TestRowOrderFollowsPrimaryKey(t *testing.T) {
	table := RexPoolTable()
	a := table.Row(1).Bytes()
	b := table.Row(2).Bytes()
	c := table.Row(1 << 40).Bytes()
	assert.Equal(t, -1, bytes.Compare(a, b))
	assert.Equal(t, -1, bytes.Compare(b, c))
}

func TestTableString(t *testing.T) {
	assert.Equal(t, "eosio/rexpool", RexPoolTable().String())
}
