package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stableex/sx.dmdvaults/internal/core/amm"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/view"
	"github.com/stableex/sx.dmdvaults/internal/core/valuation"
	"github.com/stableex/sx.dmdvaults/internal/storage/database"
	"golang.org/x/sync/errgroup"
)

// Oracle opens sessions over a ledger database. It is safe for concurrent
// use; sessions are not.
type Oracle struct {
	db        database.DB
	fee       uint64
	cacheSize int
	logger    *slog.Logger
}

type Option func(*Oracle)

// WithFee overrides the withdrawal fee in pips.
func WithFee(pips uint64) Option {
	return func(o *Oracle) { o.fee = pips }
}

// WithCacheSize bounds the per-session valuation cache.
func WithCacheSize(n int) Option {
	return func(o *Oracle) { o.cacheSize = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Oracle) { o.logger = l }
}

func NewOracle(db database.DB, opts ...Option) (*Oracle, error) {
	o := &Oracle{
		db:        db,
		fee:       DefaultFee,
		cacheSize: valuation.DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.fee >= amm.FEE_DENOMINATOR {
		return nil, fmt.Errorf("%w: %d", amm.ErrInvalidFee, o.fee)
	}
	return o, nil
}

// Fee returns the configured withdrawal fee in pips.
func (o *Oracle) Fee() uint64 {
	return o.fee
}

// Open starts a session on a snapshot of the ledger. The caller must
// Close it.
func (o *Oracle) Open(ctx context.Context) (*Session, error) {
	snap, err := o.db.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger snapshot: %w", err)
	}

	s, err := NewSession(view.NewStateReader(ctx, snap), o.fee, o.cacheSize, o.logger)
	if err != nil {
		snap.Close()
		return nil, err
	}
	s.closer = snap.Close
	return s, nil
}

// Invoke runs fn in a fresh session and closes it afterwards.
func (o *Oracle) Invoke(ctx context.Context, fn func(*Session) error) (err error) {
	s, err := o.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close session: %w", cerr)
		}
	}()
	return fn(s)
}

// AllReserves reads the reserves of every vault, each in its own session.
// With sortBase the base symbol comes first, otherwise the backed symbol.
func (o *Oracle) AllReserves(ctx context.Context, sortBase bool) (map[ID]Pair, error) {
	ids := IDs()
	pairs := make([]Pair, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			b, err := Lookup(id)
			if err != nil {
				return err
			}
			sort := b.Backed.Symbol
			if sortBase {
				sort = b.Base.Symbol
			}
			return o.Invoke(ctx, func(s *Session) error {
				pair, err := s.Reserves(id, sort)
				if err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				pairs[i] = pair
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[ID]Pair, len(ids))
	for i, id := range ids {
		out[id] = pairs[i]
	}
	return out, nil
}
