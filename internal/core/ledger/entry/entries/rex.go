package entries

import (
	"errors"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
)

// RexMaturity is a (maturity time, rex amount) bucket.
type RexMaturity struct {
	Time   uint32 `codec:"first"`
	Amount int64  `codec:"second"`
}

// RexBalance is an owner's resource lending position.
type RexBalance struct {
	Version       uint8         `codec:"version"`
	Owner         asset.Name    `codec:"owner"`
	VoteStake     Quantity      `codec:"vote_stake"`
	RexBalance    Quantity      `codec:"rex_balance"`
	MaturedRex    int64         `codec:"matured_rex"`
	RexMaturities []RexMaturity `codec:"rex_maturities"`
}

func (r *RexBalance) Type() entry.Type { return entry.TypeRexBalance }

func (r *RexBalance) PrimaryKey() uint64 { return uint64(r.Owner) }

func (r *RexBalance) Validate() error {
	if r.Owner.IsEmpty() {
		return errors.New("owner is required")
	}
	if r.RexBalance.Amount < 0 {
		return errors.New("rex balance cannot be negative")
	}
	return nil
}

// RexPool holds the lending pool totals. The table is read from its first row.
type RexPool struct {
	Version         uint8    `codec:"version"`
	TotalLent       Quantity `codec:"total_lent"`
	TotalUnlent     Quantity `codec:"total_unlent"`
	TotalRent       Quantity `codec:"total_rent"`
	TotalLendable   Quantity `codec:"total_lendable"`
	TotalRex        Quantity `codec:"total_rex"`
	NamebidProceeds Quantity `codec:"namebid_proceeds"`
	LoanNum         uint64   `codec:"loan_num"`
}

func (p *RexPool) Type() entry.Type { return entry.TypeRexPool }

func (p *RexPool) PrimaryKey() uint64 { return p.LoanNum }

func (p *RexPool) Validate() error {
	if p.TotalLent.Amount < 0 || p.TotalUnlent.Amount < 0 || p.TotalRex.Amount < 0 {
		return errors.New("pool totals cannot be negative")
	}
	if p.TotalLent.Symbol != p.TotalUnlent.Symbol {
		return errors.New("lent and unlent symbols differ")
	}
	return nil
}
