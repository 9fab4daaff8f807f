package vault

import (
	"fmt"
	"log/slog"

	"github.com/stableex/sx.dmdvaults/internal/core/amm"
	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/view"
	"github.com/stableex/sx.dmdvaults/internal/core/valuation"
)

// Session is one oracle invocation: every read goes through the same
// reader and REX values are memoized for its lifetime. A Session is not
// safe for concurrent use.
type Session struct {
	reader   view.Reader
	valuator *valuation.Valuator
	fee      uint64
	logger   *slog.Logger
	closer   func() error
}

// NewSession starts an invocation over reader with a fresh valuation cache.
func NewSession(reader view.Reader, fee uint64, cacheSize int, logger *slog.Logger) (*Session, error) {
	if fee >= amm.FEE_DENOMINATOR {
		return nil, fmt.Errorf("%w: %d", amm.ErrInvalidFee, fee)
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := valuation.NewCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Session{
		reader:   reader,
		valuator: valuation.NewValuator(reader, cache, rexBase, logger),
		fee:      fee,
		logger:   logger,
	}, nil
}

// Fee returns the withdrawal fee in pips used by this session.
func (s *Session) Fee() uint64 {
	return s.fee
}

// Close releases the snapshot backing the session, if any.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer()
}

// ResourceValue returns the base asset value of account's REX position.
func (s *Session) ResourceValue(account asset.Name) (asset.Asset, error) {
	return s.valuator.GetResourceValue(account)
}

// Reserves returns the reserve pair of vault id with the sort symbol first.
func (s *Session) Reserves(id ID, sort asset.Symbol) (Pair, error) {
	b, err := Lookup(id)
	if err != nil {
		return Pair{}, err
	}
	if !b.HasSymbol(sort) {
		return Pair{}, b.pairError(sort.String())
	}

	backed, err := s.backedReserve(b)
	if err != nil {
		return Pair{}, err
	}
	base, err := s.baseReserve(b)
	if err != nil {
		return Pair{}, err
	}

	if sort == b.Base.Symbol {
		return Pair{First: base, Second: backed}, nil
	}
	return Pair{First: backed, Second: base}, nil
}

// backedReserve is the circulating supply of the backed token.
func (s *Session) backedReserve(b Binding) (asset.Asset, error) {
	stat, found, err := s.reader.LookupSupply(b.Backed.Contract, b.Backed.Symbol.Code())
	if err != nil {
		return asset.Asset{}, err
	}
	if !found {
		return asset.Asset{}, fmt.Errorf("%w: no %s row in %s stat table",
			ErrNoBackingRow, b.Backed.Symbol.Code(), b.Backed.Contract)
	}

	supply := stat.Supply.Asset(b.Backed.Contract)
	if supply.Symbol != b.Backed.Symbol {
		return asset.Asset{}, fmt.Errorf("%w: %s supply is %s", asset.ErrSymbolMismatch, b.Backed, supply.Symbol)
	}
	return supply, nil
}

// baseReserve is the vault account's base balance plus, for REX valued
// vaults, the value of its lending position.
func (s *Session) baseReserve(b Binding) (asset.Asset, error) {
	balance, err := s.reader.LookupBalance(b.Account, b.Base.Contract, b.Base.Symbol)
	if err != nil {
		return asset.Asset{}, err
	}
	if !b.RexValued {
		return balance, nil
	}

	rex, err := s.valuator.GetResourceValue(b.Account)
	if err != nil {
		return asset.Asset{}, err
	}
	return balance.Add(rex)
}

// AmountOut quotes amountIn against the given reserves with the session
// fee. Withdrawals of a gated vault's backed token pass through the gate.
func (s *Session) AmountOut(id ID, amountIn, reserveIn, reserveOut uint64, out asset.Symbol) (GateDecision, error) {
	b, err := Lookup(id)
	if err != nil {
		return GateDecision{}, err
	}
	if !b.HasSymbol(out) {
		return GateDecision{}, b.pairError(out.String())
	}

	amountOut, err := amm.QuoteOut(amountIn, reserveIn, reserveOut, s.fee)
	if err != nil {
		return GateDecision{}, err
	}

	if b.Gate == nil || out != b.Backed.Symbol {
		return GateDecision{Amount: amountOut, Reason: GateUngated}, nil
	}
	return s.gate(b, amountOut)
}

// QuoteResult is a complete swap quote against current reserves.
type QuoteResult struct {
	Vault    ID
	In       asset.Asset
	Out      asset.Asset
	Reserves Pair
	Fee      uint64
	Reason   GateReason
}

// Quote prices in against vault id's live reserves, returning the amount
// of out received.
func (s *Session) Quote(id ID, in asset.Asset, out asset.Symbol) (QuoteResult, error) {
	b, err := Lookup(id)
	if err != nil {
		return QuoteResult{}, err
	}
	if in.Symbol == out {
		return QuoteResult{}, b.pairError(in.Symbol.String() + " to itself")
	}
	outExt, err := b.Extended(out)
	if err != nil {
		return QuoteResult{}, err
	}
	if in.Amount <= 0 {
		return QuoteResult{}, amm.ErrInsufficientInputAmount
	}

	reserves, err := s.Reserves(id, in.Symbol)
	if err != nil {
		return QuoteResult{}, err
	}
	if in.Issuer != reserves.First.Issuer {
		return QuoteResult{}, fmt.Errorf("%w: %s is not %s", asset.ErrSymbolMismatch, in.Extended(), reserves.First.Extended())
	}
	if reserves.First.Amount < 0 || reserves.Second.Amount < 0 {
		return QuoteResult{}, fmt.Errorf("%w: %s", amm.ErrInsufficientLiquidity, reserves)
	}

	decision, err := s.AmountOut(id, uint64(in.Amount), uint64(reserves.First.Amount), uint64(reserves.Second.Amount), out)
	if err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{
		Vault:    id,
		In:       in,
		Out:      asset.New(int64(decision.Amount), outExt),
		Reserves: reserves,
		Fee:      s.fee,
		Reason:   decision.Reason,
	}, nil
}
