package entries

import (
	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
)

// Entry is a decoded table row.
type Entry interface {
	Type() entry.Type
	Validate() error
	PrimaryKey() uint64
}

// Quantity is an on-ledger amount. The issuer is implied by the table the
// row lives in.
type Quantity struct {
	Amount int64  `codec:"amount"`
	Symbol uint64 `codec:"symbol"`
}

// NewQuantity drops the issuer of a.
func NewQuantity(a asset.Asset) Quantity {
	return Quantity{Amount: a.Amount, Symbol: a.Symbol.Raw()}
}

// Sym returns the decoded symbol.
func (q Quantity) Sym() asset.Symbol {
	return asset.SymbolFromRaw(q.Symbol)
}

// Asset attaches issuer to the quantity.
func (q Quantity) Asset(issuer asset.Name) asset.Asset {
	return asset.Asset{Amount: q.Amount, Symbol: q.Sym(), Issuer: issuer}
}
