// Package storage opens the ledger database selected by configuration.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stableex/sx.dmdvaults/internal/config"
	"github.com/stableex/sx.dmdvaults/internal/storage/database"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/bbolt"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/leveldb"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/pebble"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/sqldb"
)

// LedgerNamespace is the database holding ledger table rows.
const LedgerNamespace = "ledger"

// NewManager builds the database manager for cfg.
func NewManager(ctx context.Context, cfg config.LedgerDBConfig) (database.Manager, error) {
	switch cfg.Type {
	case "pebble":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", cfg.Path, err)
		}
		return pebble.NewManager(cfg.Path), nil
	case "leveldb":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", cfg.Path, err)
		}
		return leveldb.NewManager(cfg.Path), nil
	case "bbolt":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", cfg.Path, err)
		}
		return bbolt.NewManager(cfg.Path), nil
	case "memory":
		return leveldb.NewMemManager(), nil
	case "sqlite", "postgres":
		dialect, err := sqldb.DialectByName(cfg.Type)
		if err != nil {
			return nil, err
		}
		dsn := cfg.DSN
		if dsn == "" && dialect.Name == sqldb.SQLite.Name {
			if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", cfg.Path, err)
			}
			dsn = sqldb.SQLiteDSN(filepath.Join(cfg.Path, LedgerNamespace+".sqlite"))
		}
		return sqldb.Open(ctx, sqldb.Config{
			Dialect:         dialect,
			DSN:             dsn,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
	}
	return nil, fmt.Errorf("unsupported ledger_db type %q", cfg.Type)
}

// Ledger is an open ledger database and the manager that owns it.
type Ledger struct {
	database.DB
	manager database.Manager
}

// OpenLedger opens the ledger namespace of the configured backend.
func OpenLedger(ctx context.Context, cfg config.LedgerDBConfig) (*Ledger, error) {
	manager, err := NewManager(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db, err := manager.OpenDB(LedgerNamespace)
	if err != nil {
		manager.Close()
		return nil, err
	}
	return &Ledger{DB: db, manager: manager}, nil
}

func (l *Ledger) Close() error {
	return l.manager.Close()
}
