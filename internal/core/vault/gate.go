package vault

import (
	"fmt"

	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry/entries"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
)

// GateReason explains a withdrawal gate decision.
type GateReason string

const (
	// GateUngated means no gate applies to the vault or output symbol
	GateUngated GateReason = "ungated"
	GateAllowed GateReason = "allowed"
	// GateReserved means a pending redemption reserves the whole vault
	GateReserved GateReason = "reserved"
	// GateOverstaked means the amount exceeds the unstaked balance
	GateOverstaked GateReason = "overstaked"
)

// GateDecision is a quoted amount after the withdrawal gate. Amount is
// zero when the gate closed; Reason tells a closed gate from a zero quote.
type GateDecision struct {
	Amount uint64
	Reason GateReason
}

// Closed reports whether the gate forced the amount to zero.
func (d GateDecision) Closed() bool {
	return d.Reason == GateReserved || d.Reason == GateOverstaked
}

// gate applies the withdrawal restrictions of b to amountOut of the backed token.
func (s *Session) gate(b Binding, amountOut uint64) (GateDecision, error) {
	empty, err := s.reader.TableIsEmpty(keylet.PendingTable(b.Gate.PendingContract))
	if err != nil {
		return GateDecision{}, fmt.Errorf("pending redemptions of %s: %w", b.Gate.PendingContract, err)
	}
	if !empty {
		s.logger.Debug("withdrawal reserved by pending redemption", "vault", b.ID.String(), "amount_out", amountOut)
		return GateDecision{Reason: GateReserved}, nil
	}

	var stake entries.StakeRecord
	found, err := s.reader.LookupByKey(keylet.Stake(b.Gate.StakeContract, b.Account), &stake)
	if err != nil {
		return GateDecision{}, fmt.Errorf("stake of %s: %w", b.Account, err)
	}
	if !found {
		return GateDecision{}, fmt.Errorf("%w: %s in %s", ErrNoStakeRow, b.Account, b.Gate.StakeContract)
	}

	balance, err := s.reader.LookupBalance(b.Account, b.Backed.Contract, b.Backed.Symbol)
	if err != nil {
		return GateDecision{}, err
	}
	available, err := balance.Sub(stake.Staked.Asset(b.Backed.Contract))
	if err != nil {
		return GateDecision{}, fmt.Errorf("available balance of %s: %w", b.Account, err)
	}

	if available.Amount < 0 || amountOut > uint64(available.Amount) {
		s.logger.Debug("withdrawal exceeds unstaked balance",
			"vault", b.ID.String(), "amount_out", amountOut, "available", available.String())
		return GateDecision{Reason: GateOverstaked}, nil
	}
	return GateDecision{Amount: amountOut, Reason: GateAllowed}, nil
}
