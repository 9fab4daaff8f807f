package asset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrSymbolMismatch = errors.New("attempt to combine assets with different symbols")
	ErrOverflow       = errors.New("asset amount overflow")
	ErrInvalidAsset   = errors.New("invalid asset string")
)

// Asset is an amount of a token issued by a specific contract.
// Values are never mutated in place; arithmetic returns a new Asset.
type Asset struct {
	Amount int64
	Symbol Symbol
	Issuer Name
}

// New returns an Asset of the given extended symbol.
func New(amount int64, ext ExtendedSymbol) Asset {
	return Asset{Amount: amount, Symbol: ext.Symbol, Issuer: ext.Contract}
}

// Zero returns a zero amount of the given extended symbol.
func Zero(ext ExtendedSymbol) Asset {
	return New(0, ext)
}

// Extended returns the symbol/issuer pair of a.
func (a Asset) Extended() ExtendedSymbol {
	return ExtendedSymbol{Symbol: a.Symbol, Contract: a.Issuer}
}

func (a Asset) IsZero() bool { return a.Amount == 0 }

func (a Asset) sameKind(b Asset) error {
	if a.Symbol != b.Symbol || a.Issuer != b.Issuer {
		return fmt.Errorf("%w: %s and %s", ErrSymbolMismatch, a.Extended(), b.Extended())
	}
	return nil
}

// Add returns a+b. Both operands must share symbol and issuer.
func (a Asset) Add(b Asset) (Asset, error) {
	if err := a.sameKind(b); err != nil {
		return Asset{}, err
	}
	if (b.Amount > 0 && a.Amount > math.MaxInt64-b.Amount) ||
		(b.Amount < 0 && a.Amount < math.MinInt64-b.Amount) {
		return Asset{}, fmt.Errorf("%w: %d + %d", ErrOverflow, a.Amount, b.Amount)
	}
	a.Amount += b.Amount
	return a, nil
}

// Sub returns a-b. Both operands must share symbol and issuer.
func (a Asset) Sub(b Asset) (Asset, error) {
	if err := a.sameKind(b); err != nil {
		return Asset{}, err
	}
	if (b.Amount < 0 && a.Amount > math.MaxInt64+b.Amount) ||
		(b.Amount > 0 && a.Amount < math.MinInt64+b.Amount) {
		return Asset{}, fmt.Errorf("%w: %d - %d", ErrOverflow, a.Amount, b.Amount)
	}
	a.Amount -= b.Amount
	return a, nil
}

// Decimal returns the amount scaled by the symbol precision.
func (a Asset) Decimal() decimal.Decimal {
	return decimal.New(a.Amount, -int32(a.Symbol.Precision()))
}

// String renders the asset as "1.0000 EOS".
func (a Asset) String() string {
	return a.Decimal().StringFixed(int32(a.Symbol.Precision())) + " " + a.Symbol.Code().String()
}

// ParseAsset reads "1.0000 EOS" issued by issuer. The precision is taken
// from the number of fractional digits.
func ParseAsset(s string, issuer Name) (Asset, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}

	var precision uint8
	if _, frac, ok := strings.Cut(fields[0], "."); ok {
		if len(frac) > MaxPrecision {
			return Asset{}, fmt.Errorf("%w: %q", ErrInvalidPrecision, s)
		}
		precision = uint8(len(frac))
	}

	sym, err := NewSymbol(fields[1], precision)
	if err != nil {
		return Asset{}, err
	}

	d, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %q: %v", ErrInvalidAsset, s, err)
	}
	units := d.Shift(int32(precision)).BigInt()
	if !units.IsInt64() {
		return Asset{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return Asset{Amount: units.Int64(), Symbol: sym, Issuer: issuer}, nil
}
