package entry

import (
	"fmt"
)

// Type represents a ledger table row type
type Type uint16

// All known table row types. The value doubles as the keylet space.
const (
	// Token contract tables
	TypeCurrencyStat   Type = 0x0073 // "stat": supply per symbol, scoped by symbol code
	TypeAccountBalance Type = 0x0061 // "accounts": balance per symbol, scoped by owner

	// Resource lending (REX) tables of the system contract
	TypeRexBalance Type = 0x0062 // "rexbal": lending position per owner
	TypeRexPool    Type = 0x0070 // "rexpool": pool totals

	// Vault support tables
	TypeStake             Type = 0x006b // dividend contract stake per owner
	TypePendingRedemption Type = 0x0071 // redemption requests waiting on vault liquidity
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeCurrencyStat:
		return "CurrencyStat"
	case TypeAccountBalance:
		return "AccountBalance"
	case TypeRexBalance:
		return "RexBalance"
	case TypeRexPool:
		return "RexPool"
	case TypeStake:
		return "Stake"
	case TypePendingRedemption:
		return "PendingRedemption"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}

// TableName returns the on-chain table name rows of this type live in.
func (t Type) TableName() string {
	switch t {
	case TypeCurrencyStat:
		return "stat"
	case TypeAccountBalance:
		return "accounts"
	case TypeRexBalance:
		return "rexbal"
	case TypeRexPool:
		return "rexpool"
	case TypeStake:
		return "stake"
	case TypePendingRedemption:
		return "pending"
	default:
		return ""
	}
}
