package asset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxPrecision is the largest number of decimals a symbol may carry.
const MaxPrecision = 18

var (
	ErrInvalidSymbolCode = errors.New("symbol code must be 1-7 uppercase letters")
	ErrInvalidPrecision  = errors.New("symbol precision out of range")
)

// SymbolCode is the raw form of a symbol's ticker, one character per byte
// starting at the least significant byte.
type SymbolCode uint64

// ParseSymbolCode packs a ticker such as "EOS".
func ParseSymbolCode(code string) (SymbolCode, error) {
	if len(code) == 0 || len(code) > 7 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbolCode, code)
	}
	var raw uint64
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSymbolCode, code)
		}
		raw |= uint64(c) << (8 * i)
	}
	return SymbolCode(raw), nil
}

// Raw returns the packed value used as a table scope or primary key.
func (c SymbolCode) Raw() uint64 {
	return uint64(c)
}

func (c SymbolCode) String() string {
	var b strings.Builder
	for raw := uint64(c); raw != 0; raw >>= 8 {
		b.WriteByte(byte(raw & 0xff))
	}
	return b.String()
}

// Symbol is a ticker plus its decimal precision.
type Symbol struct {
	code      SymbolCode
	precision uint8
}

// NewSymbol builds a Symbol from a ticker and precision.
func NewSymbol(code string, precision uint8) (Symbol, error) {
	if precision > MaxPrecision {
		return Symbol{}, fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	c, err := ParseSymbolCode(code)
	if err != nil {
		return Symbol{}, err
	}
	return Symbol{code: c, precision: precision}, nil
}

// MustSymbol panics when the symbol is invalid.
func MustSymbol(code string, precision uint8) Symbol {
	s, err := NewSymbol(code, precision)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSymbol accepts the "4,EOS" notation.
func ParseSymbol(s string) (Symbol, error) {
	prec, code, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbolCode, s)
	}
	p, err := strconv.ParseUint(prec, 10, 8)
	if err != nil {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidPrecision, prec)
	}
	return NewSymbol(code, uint8(p))
}

func (s Symbol) Code() SymbolCode { return s.code }
func (s Symbol) Precision() uint8 { return s.precision }

// Raw packs precision into the low byte and the code above it.
func (s Symbol) Raw() uint64 {
	return uint64(s.code)<<8 | uint64(s.precision)
}

func (s Symbol) IsValid() bool {
	return s.code != 0 && s.precision <= MaxPrecision
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.precision, s.code)
}

// ExtendedSymbol binds a symbol to the contract that issues it.
type ExtendedSymbol struct {
	Symbol   Symbol
	Contract Name
}

func (e ExtendedSymbol) String() string {
	return fmt.Sprintf("%s@%s", e.Symbol, e.Contract)
}

// SymbolFromRaw unpacks the value produced by Symbol.Raw.
func SymbolFromRaw(raw uint64) Symbol {
	return Symbol{code: SymbolCode(raw >> 8), precision: uint8(raw & 0xff)}
}
