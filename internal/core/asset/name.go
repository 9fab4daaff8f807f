package asset

import (
	"errors"
	"fmt"
)

// Name is a ledger account or contract identity packed into 64 bits.
// Up to 12 characters use 5 bits each, an optional 13th uses the low 4 bits.
type Name uint64

const (
	maxNameLength = 13
	nameCharmap   = ".12345abcdefghijklmnopqrstuvwxyz"
)

var (
	ErrNameTooLong     = errors.New("name exceeds 13 characters")
	ErrNameInvalidChar = errors.New("name contains an invalid character")
)

func charToValue(c byte) (uint64, bool) {
	switch {
	case c == '.':
		return 0, true
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, true
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, true
	}
	return 0, false
}

// ParseName encodes s into a Name.
func ParseName(s string) (Name, error) {
	if len(s) > maxNameLength {
		return 0, fmt.Errorf("%w: %q", ErrNameTooLong, s)
	}

	var value uint64
	for i := 0; i < len(s); i++ {
		c, ok := charToValue(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrNameInvalidChar, s)
		}
		if i < 12 {
			value |= (c & 0x1f) << (64 - 5*(i+1))
			continue
		}
		// The 13th character only has 4 bits left.
		if c > 0x0f {
			return 0, fmt.Errorf("%w: %q", ErrNameInvalidChar, s)
		}
		value |= c & 0x0f
	}
	return Name(value), nil
}

// MustName is ParseName for compile-time constants. It panics on invalid input.
func MustName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String decodes the name back to its textual form.
func (n Name) String() string {
	var out [maxNameLength]byte
	tmp := uint64(n)
	for i := 0; i < maxNameLength; i++ {
		if i == 0 {
			out[12-i] = nameCharmap[tmp&0x0f]
			tmp >>= 4
		} else {
			out[12-i] = nameCharmap[tmp&0x1f]
			tmp >>= 5
		}
	}

	end := maxNameLength
	for end > 0 && out[end-1] == '.' {
		end--
	}
	return string(out[:end])
}

// IsEmpty reports whether n is the zero name.
func (n Name) IsEmpty() bool {
	return n == 0
}
