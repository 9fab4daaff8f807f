package entries

import (
	"errors"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
)

// CurrencyStat is a row of a token contract's "stat" table.
type CurrencyStat struct {
	Supply    Quantity   `codec:"supply"`
	MaxSupply Quantity   `codec:"max_supply"`
	Issuer    asset.Name `codec:"issuer"`
}

func (c *CurrencyStat) Type() entry.Type { return entry.TypeCurrencyStat }

// PrimaryKey is the raw symbol code of the supply.
func (c *CurrencyStat) PrimaryKey() uint64 {
	return c.Supply.Sym().Code().Raw()
}

func (c *CurrencyStat) Validate() error {
	if !c.Supply.Sym().IsValid() {
		return errors.New("supply symbol is invalid")
	}
	if c.Supply.Symbol != c.MaxSupply.Symbol {
		return errors.New("supply and max supply symbols differ")
	}
	if c.Supply.Amount < 0 {
		return errors.New("supply cannot be negative")
	}
	if c.MaxSupply.Amount > 0 && c.Supply.Amount > c.MaxSupply.Amount {
		return errors.New("supply exceeds max supply")
	}
	return nil
}

// AccountBalance is a row of a token contract's "accounts" table.
type AccountBalance struct {
	Balance Quantity `codec:"balance"`
}

func (a *AccountBalance) Type() entry.Type { return entry.TypeAccountBalance }

func (a *AccountBalance) PrimaryKey() uint64 {
	return a.Balance.Sym().Code().Raw()
}

func (a *AccountBalance) Validate() error {
	if !a.Balance.Sym().IsValid() {
		return errors.New("balance symbol is invalid")
	}
	if a.Balance.Amount < 0 {
		return errors.New("balance cannot be negative")
	}
	return nil
}
