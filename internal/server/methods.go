package server

import (
	"context"
	"strings"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/vault"
)

// Params carries the arguments of every method. Fields a method does not
// use are ignored.
type Params struct {
	Vault    string `json:"vault,omitempty"`
	Sort     string `json:"sort,omitempty"`
	In       string `json:"in,omitempty"`
	Out      string `json:"out,omitempty"`
	Account  string `json:"account,omitempty"`
	SortBase bool   `json:"sort_base,omitempty"`
}

// Method handles one named request against the oracle.
type Method func(ctx context.Context, p Params) (any, error)

// AssetJSON is the wire form of an asset.
type AssetJSON struct {
	Quantity string `json:"quantity"`
	Contract string `json:"contract"`
	Amount   int64  `json:"amount"`
}

func assetJSON(a asset.Asset) AssetJSON {
	return AssetJSON{Quantity: a.String(), Contract: a.Issuer.String(), Amount: a.Amount}
}

type PairJSON struct {
	Vault  string    `json:"vault"`
	First  AssetJSON `json:"first"`
	Second AssetJSON `json:"second"`
}

func pairJSON(id vault.ID, p vault.Pair) PairJSON {
	return PairJSON{Vault: id.String(), First: assetJSON(p.First), Second: assetJSON(p.Second)}
}

type QuoteJSON struct {
	Vault    string    `json:"vault"`
	In       AssetJSON `json:"in"`
	Out      AssetJSON `json:"out"`
	Fee      uint64    `json:"fee"`
	Reason   string    `json:"reason"`
	Reserves PairJSON  `json:"reserves"`
}

type ValueJSON struct {
	Account string    `json:"account"`
	Value   AssetJSON `json:"value"`
}

type FeeJSON struct {
	Fee uint64 `json:"fee"`
}

func (s *Server) registerMethods() {
	s.methods = map[string]Method{
		"reserves":     s.reserves,
		"all_reserves": s.allReserves,
		"quote":        s.quote,
		"value":        s.value,
		"fee":          s.fee,
	}
}

func binding(name string) (vault.Binding, error) {
	if strings.TrimSpace(name) == "" {
		return vault.Binding{}, invalidParams("missing vault")
	}
	id, err := vault.ParseID(name)
	if err != nil {
		return vault.Binding{}, err
	}
	return vault.Lookup(id)
}

// reserves returns one vault's reserve pair, the sort symbol first. The
// backed token sorts first when no sort symbol is given.
func (s *Server) reserves(ctx context.Context, p Params) (any, error) {
	b, err := binding(p.Vault)
	if err != nil {
		return nil, err
	}
	sort := b.Backed.Symbol
	if p.Sort != "" {
		if sort, err = b.SymbolByCode(p.Sort); err != nil {
			return nil, err
		}
	}

	var pair vault.Pair
	err = s.oracle.Invoke(ctx, func(sess *vault.Session) error {
		pair, err = sess.Reserves(b.ID, sort)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pairJSON(b.ID, pair), nil
}

func (s *Server) allReserves(ctx context.Context, p Params) (any, error) {
	pairs, err := s.oracle.AllReserves(ctx, p.SortBase)
	if err != nil {
		return nil, err
	}
	out := make([]PairJSON, 0, len(pairs))
	for _, id := range vault.IDs() {
		out = append(out, pairJSON(id, pairs[id]))
	}
	return out, nil
}

// quote prices p.In ("1.0000 EOS") into the p.Out symbol code.
func (s *Server) quote(ctx context.Context, p Params) (any, error) {
	b, err := binding(p.Vault)
	if err != nil {
		return nil, err
	}
	if p.In == "" || p.Out == "" {
		return nil, invalidParams("quote needs in and out")
	}
	in, err := b.ParseAsset(p.In)
	if err != nil {
		return nil, err
	}
	out, err := b.SymbolByCode(p.Out)
	if err != nil {
		return nil, err
	}

	var res vault.QuoteResult
	err = s.oracle.Invoke(ctx, func(sess *vault.Session) error {
		res, err = sess.Quote(b.ID, in, out)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.observeGate(b.ID, res.Reason)
	if res.Reason == vault.GateReserved || res.Reason == vault.GateOverstaked {
		s.logger.Info("withdrawal gated", "vault", b.ID.String(), "in", res.In.String(), "reason", string(res.Reason))
	}

	return QuoteJSON{
		Vault:    b.ID.String(),
		In:       assetJSON(res.In),
		Out:      assetJSON(res.Out),
		Fee:      res.Fee,
		Reason:   string(res.Reason),
		Reserves: pairJSON(b.ID, res.Reserves),
	}, nil
}

func (s *Server) value(ctx context.Context, p Params) (any, error) {
	if p.Account == "" {
		return nil, invalidParams("missing account")
	}
	account, err := asset.ParseName(p.Account)
	if err != nil {
		return nil, err
	}

	var v asset.Asset
	err = s.oracle.Invoke(ctx, func(sess *vault.Session) error {
		v, err = sess.ResourceValue(account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ValueJSON{Account: account.String(), Value: assetJSON(v)}, nil
}

func (s *Server) fee(context.Context, Params) (any, error) {
	return FeeJSON{Fee: s.oracle.Fee()}, nil
}
