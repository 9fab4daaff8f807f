// Package valuation converts resource lending (REX) positions into an
// equivalent amount of the base asset.
package valuation

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry/entries"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/view"
)

// Valuator values REX positions through a ledger reader.
type Valuator struct {
	reader view.Reader
	cache  *Cache
	base   asset.ExtendedSymbol
	logger *slog.Logger
}

// NewValuator returns a Valuator reporting values in base. A nil logger
// falls back to slog.Default().
func NewValuator(reader view.Reader, cache *Cache, base asset.ExtendedSymbol, logger *slog.Logger) *Valuator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Valuator{reader: reader, cache: cache, base: base, logger: logger}
}

// GetResourceValue returns the base asset value of account's REX position.
// Missing positions and empty pools are worth zero; only storage failures
// are returned as errors. Non-zero results are memoized per account.
func (v *Valuator) GetResourceValue(account asset.Name) (asset.Asset, error) {
	if cached, ok := v.cache.Get(account); ok {
		v.logger.Debug("resource value cache hit", "account", account.String(), "value", cached.String())
		return cached, nil
	}

	zero := asset.Zero(v.base)

	var position entries.RexBalance
	found, err := v.reader.LookupByKey(keylet.RexBalance(account), &position)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("rex position of %s: %w", account, err)
	}
	if !found {
		return zero, nil
	}

	var pool entries.RexPool
	found, err = v.reader.ReadFirst(keylet.RexPoolTable(), &pool)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("rex pool: %w", err)
	}
	if !found {
		return zero, nil
	}

	units, err := rexValue(position.RexBalance.Amount, pool)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("rex position of %s: %w", account, err)
	}
	if units == 0 {
		return zero, nil
	}

	value := asset.New(units, v.base)
	v.cache.Put(account, value)
	return value, nil
}

// rexValue returns floor(rex * (lent + unlent) / totalRex) evaluated in
// double precision. A pool without REX supply values everything at zero.
func rexValue(rex int64, pool entries.RexPool) (int64, error) {
	if pool.TotalRex.Amount == 0 || rex <= 0 {
		return 0, nil
	}

	ratio := float64(pool.TotalLent.Amount+pool.TotalUnlent.Amount) / float64(pool.TotalRex.Amount)
	value := math.Floor(float64(rex) * ratio)
	if value < 0 || value >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d rex at ratio %g", asset.ErrOverflow, rex, ratio)
	}
	return int64(value), nil
}
