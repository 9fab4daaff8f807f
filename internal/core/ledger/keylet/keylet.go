package keylet

import (
	"bytes"
	"encoding/binary"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
	crypto "github.com/stableex/sx.dmdvaults/internal/crypto/common"
)

// PrefixSize is the number of leading key bytes shared by every row of a table.
const PrefixSize = 24

// System accounts owning the resource lending tables.
var (
	SystemAccount = asset.MustName("eosio")
)

// Table identifies one (contract, scope, table) triple.
type Table struct {
	Type  entry.Type
	Code  asset.Name
	Scope uint64
}

// Keylet represents an addressable row in ledger state.
// The first PrefixSize bytes identify the table, the last 8 hold the
// big-endian primary key so rows iterate in primary key order.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// Prefix computes the table prefix by hashing the space, code and scope.
func (t Table) Prefix() [PrefixSize]byte {
	space := make([]byte, 2)
	binary.BigEndian.PutUint16(space, uint16(t.Type))
	code := make([]byte, 8)
	binary.BigEndian.PutUint64(code, uint64(t.Code))
	scope := make([]byte, 8)
	binary.BigEndian.PutUint64(scope, t.Scope)

	h := crypto.Sha512Half(space, code, scope)
	var prefix [PrefixSize]byte
	copy(prefix[:], h[:PrefixSize])
	return prefix
}

// Row returns the keylet of the row with the given primary key.
func (t Table) Row(primary uint64) Keylet {
	prefix := t.Prefix()
	k := Keylet{Type: t.Type}
	copy(k.Key[:PrefixSize], prefix[:])
	binary.BigEndian.PutUint64(k.Key[PrefixSize:], primary)
	return k
}

// Range returns the [start, end) key bounds covering every row of t.
func (t Table) Range() (start, end []byte) {
	prefix := t.Prefix()
	start = append([]byte(nil), prefix[:]...)
	end = append([]byte(nil), prefix[:]...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return start, end
		}
	}
	// all 0xff: no upper bound
	return start, nil
}

// Contains reports whether k belongs to t.
func (t Table) Contains(k Keylet) bool {
	prefix := t.Prefix()
	return k.Type == t.Type && bytes.Equal(k.Key[:PrefixSize], prefix[:])
}

func (t Table) String() string {
	return t.Code.String() + "/" + t.Type.TableName()
}

// Primary returns the primary key encoded in k.
func (k Keylet) Primary() uint64 {
	return binary.BigEndian.Uint64(k.Key[PrefixSize:])
}

// Bytes returns the storage key.
func (k Keylet) Bytes() []byte {
	return append([]byte(nil), k.Key[:]...)
}

// SupplyTable is the "stat" table of issuer scoped by the symbol code.
func SupplyTable(issuer asset.Name, code asset.SymbolCode) Table {
	return Table{Type: entry.TypeCurrencyStat, Code: issuer, Scope: code.Raw()}
}

// Supply returns the keylet for the supply row of a token.
func Supply(issuer asset.Name, code asset.SymbolCode) Keylet {
	return SupplyTable(issuer, code).Row(code.Raw())
}

// BalanceTable is the "accounts" table of issuer scoped by owner.
func BalanceTable(account, issuer asset.Name) Table {
	return Table{Type: entry.TypeAccountBalance, Code: issuer, Scope: uint64(account)}
}

// Balance returns the keylet for an account's balance of a token.
func Balance(account, issuer asset.Name, code asset.SymbolCode) Keylet {
	return BalanceTable(account, issuer).Row(code.Raw())
}

// RexBalanceTable is the system "rexbal" table.
func RexBalanceTable() Table {
	return Table{Type: entry.TypeRexBalance, Code: SystemAccount, Scope: uint64(SystemAccount)}
}

// RexBalance returns the keylet for an owner's lending position.
func RexBalance(owner asset.Name) Keylet {
	return RexBalanceTable().Row(uint64(owner))
}

// RexPoolTable is the system "rexpool" table.
func RexPoolTable() Table {
	return Table{Type: entry.TypeRexPool, Code: SystemAccount, Scope: uint64(SystemAccount)}
}

// RexPool returns the keylet for a pool row.
func RexPool(loanNum uint64) Keylet {
	return RexPoolTable().Row(loanNum)
}

// StakeTable is a dividend contract's stake table scoped to itself.
func StakeTable(contract asset.Name) Table {
	return Table{Type: entry.TypeStake, Code: contract, Scope: uint64(contract)}
}

// Stake returns the keylet for an owner's stake.
func Stake(contract, owner asset.Name) Keylet {
	return StakeTable(contract).Row(uint64(owner))
}

// PendingTable is a vault contract's pending redemption table scoped to itself.
func PendingTable(contract asset.Name) Table {
	return Table{Type: entry.TypePendingRedemption, Code: contract, Scope: uint64(contract)}
}

// Pending returns the keylet for a redemption request.
func Pending(contract asset.Name, id uint64) Keylet {
	return PendingTable(contract).Row(id)
}
