package asset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName_RoundTrip(t *testing.T) {
	for _, s := range []string{"eosio", "eosio.token", "dvaultproxy1", "eosdmddtoken", "dmddappvault", "a", "zzzzzzzzzzzzj"} {
		t.Run(s, func(t *testing.T) {
			n, err := ParseName(s)
			require.NoError(t, err)
			assert.Equal(t, s, n.String())
		})
	}
}

func TestName_KnownValue(t *testing.T) {
	// eosio encodes to 0x5530ea0000000000
	assert.Equal(t, Name(0x5530ea0000000000), MustName("eosio"))
}

func TestName_Invalid(t *testing.T) {
	_, err := ParseName("abcdefghijklmn")
	assert.ErrorIs(t, err, ErrNameTooLong)

	_, err = ParseName("Eosio")
	assert.ErrorIs(t, err, ErrNameInvalidChar)

	_, err = ParseName("eos6")
	assert.ErrorIs(t, err, ErrNameInvalidChar)

	// 13th character must fit in 4 bits
	_, err = ParseName("aaaaaaaaaaaaz")
	assert.ErrorIs(t, err, ErrNameInvalidChar)
}

func TestSymbol(t *testing.T) {
	eos := MustSymbol("EOS", 4)
	assert.Equal(t, "4,EOS", eos.String())
	assert.Equal(t, "EOS", eos.Code().String())
	assert.Equal(t, uint8(4), eos.Precision())
	assert.Equal(t, eos, SymbolFromRaw(eos.Raw()))

	parsed, err := ParseSymbol("4,EOS")
	require.NoError(t, err)
	assert.Equal(t, eos, parsed)

	_, err = NewSymbol("eos", 4)
	assert.ErrorIs(t, err, ErrInvalidSymbolCode)
	_, err = NewSymbol("TOOLONGX", 4)
	assert.ErrorIs(t, err, ErrInvalidSymbolCode)
	_, err = NewSymbol("EOS", 19)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
	_, err = ParseSymbol("EOS")
	assert.Error(t, err)
}

func TestAsset_Arithmetic(t *testing.T) {
	eos := ExtendedSymbol{Symbol: MustSymbol("EOS", 4), Contract: MustName("eosio.token")}
	deos := ExtendedSymbol{Symbol: MustSymbol("DEOS", 4), Contract: MustName("eosdmddtoken")}

	t.Run("add", func(t *testing.T) {
		sum, err := New(15, eos).Add(New(27, eos))
		require.NoError(t, err)
		assert.Equal(t, int64(42), sum.Amount)
		assert.Equal(t, eos, sum.Extended())
	})

	t.Run("operands are not mutated", func(t *testing.T) {
		a := New(15, eos)
		_, err := a.Add(New(27, eos))
		require.NoError(t, err)
		assert.Equal(t, int64(15), a.Amount)
	})

	t.Run("symbol mismatch", func(t *testing.T) {
		_, err := New(1, eos).Add(New(1, deos))
		assert.ErrorIs(t, err, ErrSymbolMismatch)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		fake := ExtendedSymbol{Symbol: eos.Symbol, Contract: MustName("fake.token")}
		_, err := New(1, eos).Add(New(1, fake))
		assert.ErrorIs(t, err, ErrSymbolMismatch)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := New(math.MaxInt64, eos).Add(New(1, eos))
		assert.ErrorIs(t, err, ErrOverflow)
		_, err = New(math.MinInt64, eos).Sub(New(1, eos))
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("sub", func(t *testing.T) {
		diff, err := New(10, eos).Sub(New(25, eos))
		require.NoError(t, err)
		assert.Equal(t, int64(-15), diff.Amount)
	})
}

func TestAsset_String(t *testing.T) {
	eos := ExtendedSymbol{Symbol: MustSymbol("EOS", 4), Contract: MustName("eosio.token")}
	assert.Equal(t, "55988.4608 EOS", New(559884608, eos).String())
	assert.Equal(t, "0.0000 EOS", Zero(eos).String())
	assert.Equal(t, "-0.0005 EOS", New(-5, eos).String())
}

func TestParseAsset(t *testing.T) {
	issuer := MustName("eosio.token")

	a, err := ParseAsset("55988.4608 EOS", issuer)
	require.NoError(t, err)
	assert.Equal(t, int64(559884608), a.Amount)
	assert.Equal(t, MustSymbol("EOS", 4), a.Symbol)
	assert.Equal(t, issuer, a.Issuer)

	a, err = ParseAsset("12 BG", issuer)
	require.NoError(t, err)
	assert.Equal(t, int64(12), a.Amount)
	assert.Equal(t, uint8(0), a.Symbol.Precision())

	_, err = ParseAsset("1.0000", issuer)
	assert.ErrorIs(t, err, ErrInvalidAsset)
	_, err = ParseAsset("abc EOS", issuer)
	assert.ErrorIs(t, err, ErrInvalidAsset)
}
