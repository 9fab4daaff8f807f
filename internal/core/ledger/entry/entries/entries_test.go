package entries

import (
	"testing"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
	"github.com/stretchr/testify/assert"
)

var (
	eos  = asset.MustSymbol("EOS", 4)
	deos = asset.MustSymbol("DEOS", 4)
)

func qty(amount int64, sym asset.Symbol) Quantity {
	return Quantity{Amount: amount, Symbol: sym.Raw()}
}

// TestEntry_Types verifies every row reports its type and table
func TestEntry_Types(t *testing.T) {
	tests := []struct {
		e     Entry
		typ   entry.Type
		table string
	}{
		{&CurrencyStat{}, entry.TypeCurrencyStat, "stat"},
		{&AccountBalance{}, entry.TypeAccountBalance, "accounts"},
		{&RexBalance{}, entry.TypeRexBalance, "rexbal"},
		{&RexPool{}, entry.TypeRexPool, "rexpool"},
		{&StakeRecord{}, entry.TypeStake, "stake"},
		{&PendingRedemption{}, entry.TypePendingRedemption, "pending"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.e.Type())
			assert.Equal(t, tt.table, tt.e.Type().TableName())
		})
	}
	assert.Equal(t, "Unknown(0xffff)", entry.Type(0xffff).String())
}

func TestQuantity(t *testing.T) {
	issuer := asset.MustName("eosio.token")
	a := asset.Asset{Amount: 12345, Symbol: eos, Issuer: issuer}

	q := NewQuantity(a)
	assert.Equal(t, eos, q.Sym())
	assert.Equal(t, a, q.Asset(issuer))
}

func TestCurrencyStat_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c := &CurrencyStat{Supply: qty(100, deos), MaxSupply: qty(1000, deos), Issuer: asset.MustName("eosdmdvaults")}
		assert.NoError(t, c.Validate())
		assert.Equal(t, deos.Code().Raw(), c.PrimaryKey())
	})

	t.Run("Invalid symbol mix", func(t *testing.T) {
		c := &CurrencyStat{Supply: qty(100, deos), MaxSupply: qty(1000, eos)}
		assert.Error(t, c.Validate())
	})

	t.Run("Invalid supply above max", func(t *testing.T) {
		c := &CurrencyStat{Supply: qty(1001, deos), MaxSupply: qty(1000, deos)}
		assert.Error(t, c.Validate())
	})

	t.Run("Invalid empty symbol", func(t *testing.T) {
		assert.Error(t, (&CurrencyStat{}).Validate())
	})
}

func TestAccountBalance_Validate(t *testing.T) {
	assert.NoError(t, (&AccountBalance{Balance: qty(5, eos)}).Validate())
	assert.Error(t, (&AccountBalance{Balance: qty(-5, eos)}).Validate())
	assert.Equal(t, eos.Code().Raw(), (&AccountBalance{Balance: qty(5, eos)}).PrimaryKey())
}

func TestRexEntries_Validate(t *testing.T) {
	owner := asset.MustName("dvaultproxy1")
	rex := asset.MustSymbol("REX", 4)

	bal := &RexBalance{Owner: owner, RexBalance: qty(10, rex)}
	assert.NoError(t, bal.Validate())
	assert.Equal(t, uint64(owner), bal.PrimaryKey())
	assert.Error(t, (&RexBalance{RexBalance: qty(10, rex)}).Validate())

	pool := &RexPool{TotalLent: qty(1, eos), TotalUnlent: qty(2, eos), TotalRex: qty(3, rex), LoanNum: 9}
	assert.NoError(t, pool.Validate())
	assert.Equal(t, uint64(9), pool.PrimaryKey())
	pool.TotalRex.Amount = -1
	assert.Error(t, pool.Validate())
}

func TestVaultEntries_Validate(t *testing.T) {
	owner := asset.MustName("dmddappvault")
	dbg := asset.MustSymbol("DBG", 4)

	stake := &StakeRecord{Owner: owner, Staked: qty(10, dbg)}
	assert.NoError(t, stake.Validate())
	assert.Equal(t, uint64(owner), stake.PrimaryKey())
	assert.Error(t, (&StakeRecord{Staked: qty(10, dbg)}).Validate())

	pending := &PendingRedemption{ID: 4, Owner: asset.MustName("alice"), Quantity: qty(1, dbg)}
	assert.NoError(t, pending.Validate())
	assert.Equal(t, uint64(4), pending.PrimaryKey())
	pending.Quantity.Amount = 0
	assert.Error(t, pending.Validate())
}
