// Package vault prices dmd vault tokens: it aggregates reserves, applies
// the withdrawal fee and gates withdrawals of the backed token.
package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
)

var (
	ErrUnknownVault     = errors.New("unknown vault")
	ErrPairNotAvailable = errors.New("pair not available")
	ErrNoBackingRow     = errors.New("no backing token supply row")
	ErrNoStakeRow       = errors.New("no vault stake row")
)

// DefaultFee is the withdrawal fee in pips applied when none is configured.
const DefaultFee uint64 = 10

// Fee returns the default withdrawal fee in pips.
func Fee() uint64 {
	return DefaultFee
}

// ID identifies one of the deployed vaults.
type ID uint8

const (
	Legacy ID = iota + 1
	Multi
)

func (id ID) String() string {
	switch id {
	case Legacy:
		return "dmd.legacy"
	case Multi:
		return "dmd.multi"
	}
	return fmt.Sprintf("vault(%d)", uint8(id))
}

// ParseID accepts the short ("legacy") and on-ledger ("dmd.legacy") names.
func ParseID(s string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "dmd.legacy":
		return Legacy, nil
	case "multi", "dmd.multi":
		return Multi, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVault, s)
}

// IDs lists every deployed vault.
func IDs() []ID {
	return []ID{Legacy, Multi}
}

// Gate names the tables consulted before the backed token is withdrawn.
type Gate struct {
	// StakeContract holds the amount the vault account has staked
	StakeContract asset.Name
	// PendingContract owns the pending redemption table, scoped to itself
	PendingContract asset.Name
}

// Binding is the fixed account and symbol set of a vault.
type Binding struct {
	ID ID
	// Contract is the vault's controlling contract
	Contract asset.Name
	// Account holds the base reserve
	Account asset.Name
	Base    asset.ExtendedSymbol
	Backed  asset.ExtendedSymbol
	// RexValued adds the account's REX position to the base reserve
	RexValued bool
	Gate      *Gate
}

// rexBase is the token REX positions are valued in.
var rexBase = asset.ExtendedSymbol{Symbol: asset.MustSymbol("EOS", 4), Contract: asset.MustName("eosio.token")}

var bindings = map[ID]Binding{
	Legacy: {
		ID:        Legacy,
		Contract:  asset.MustName("eosdmdvaults"),
		Account:   asset.MustName("dvaultproxy1"),
		Base:      rexBase,
		Backed:    asset.ExtendedSymbol{Symbol: asset.MustSymbol("DEOS", 4), Contract: asset.MustName("eosdmddtoken")},
		RexValued: true,
	},
	Multi: {
		ID:       Multi,
		Contract: asset.MustName("dmddappvault"),
		Account:  asset.MustName("dmddappvault"),
		Base:     asset.ExtendedSymbol{Symbol: asset.MustSymbol("BG", 4), Contract: asset.MustName("bgbgbgbgbgbg")},
		Backed:   asset.ExtendedSymbol{Symbol: asset.MustSymbol("DBG", 4), Contract: asset.MustName("dmddbgtoken1")},
		Gate: &Gate{
			StakeContract:   asset.MustName("dmddividends"),
			PendingContract: asset.MustName("dmddappvault"),
		},
	},
}

// Lookup returns the binding of id.
func Lookup(id ID) (Binding, error) {
	b, ok := bindings[id]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %s", ErrUnknownVault, id)
	}
	return b, nil
}

// HasSymbol reports whether sym is one side of the vault's pair.
func (b Binding) HasSymbol(sym asset.Symbol) bool {
	return sym == b.Base.Symbol || sym == b.Backed.Symbol
}

// SymbolByCode resolves a ticker such as "EOS" against the vault's pair.
func (b Binding) SymbolByCode(code string) (asset.Symbol, error) {
	for _, ext := range []asset.ExtendedSymbol{b.Base, b.Backed} {
		if ext.Symbol.Code().String() == strings.ToUpper(code) {
			return ext.Symbol, nil
		}
	}
	return asset.Symbol{}, b.pairError(code)
}

// Extended returns the extended form of one of the pair's symbols.
func (b Binding) Extended(sym asset.Symbol) (asset.ExtendedSymbol, error) {
	switch sym {
	case b.Base.Symbol:
		return b.Base, nil
	case b.Backed.Symbol:
		return b.Backed, nil
	}
	return asset.ExtendedSymbol{}, b.pairError(sym.String())
}

// ParseAsset reads "1.0000 EOS" where the symbol must be one side of the
// vault's pair; the issuer is taken from the binding.
func (b Binding) ParseAsset(s string) (asset.Asset, error) {
	a, err := asset.ParseAsset(s, 0)
	if err != nil {
		return asset.Asset{}, err
	}
	ext, err := b.Extended(a.Symbol)
	if err != nil {
		return asset.Asset{}, err
	}
	a.Issuer = ext.Contract
	return a, nil
}

func (b Binding) pairError(got string) error {
	return fmt.Errorf("%w: only %s/%s pair available on %s, got %s",
		ErrPairNotAvailable, b.Base.Symbol.Code(), b.Backed.Symbol.Code(), b.ID, got)
}

// Pair is an ordered reserve pair.
type Pair struct {
	First  asset.Asset
	Second asset.Asset
}

// Swap returns the pair in the opposite order.
func (p Pair) Swap() Pair {
	return Pair{First: p.Second, Second: p.First}
}

func (p Pair) String() string {
	return p.First.String() + " / " + p.Second.String()
}
