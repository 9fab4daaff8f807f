package entries

import (
	"errors"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry"
)

// StakeRecord is the amount an owner has locked in a dividend contract.
type StakeRecord struct {
	Owner  asset.Name `codec:"owner"`
	Staked Quantity   `codec:"staked"`
}

func (s *StakeRecord) Type() entry.Type { return entry.TypeStake }

func (s *StakeRecord) PrimaryKey() uint64 { return uint64(s.Owner) }

func (s *StakeRecord) Validate() error {
	if s.Owner.IsEmpty() {
		return errors.New("owner is required")
	}
	if s.Staked.Amount < 0 {
		return errors.New("staked amount cannot be negative")
	}
	return nil
}

// PendingRedemption is an outstanding redemption request. Any row reserves
// the whole vault.
type PendingRedemption struct {
	ID          uint64     `codec:"id"`
	Owner       asset.Name `codec:"owner"`
	Quantity    Quantity   `codec:"quantity"`
	RequestedAt uint32     `codec:"requested_at"`
}

func (p *PendingRedemption) Type() entry.Type { return entry.TypePendingRedemption }

func (p *PendingRedemption) PrimaryKey() uint64 { return p.ID }

func (p *PendingRedemption) Validate() error {
	if p.Owner.IsEmpty() {
		return errors.New("owner is required")
	}
	if p.Quantity.Amount <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}
