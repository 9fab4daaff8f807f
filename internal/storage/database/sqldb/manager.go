package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/stableex/sx.dmdvaults/internal/storage/database"
	_ "modernc.org/sqlite" // SQLite driver
)

var validName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,47}$`)

// Config contains database connection settings
type Config struct {
	Dialect Dialect
	DSN     string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	DefaultTimeout time.Duration
}

// Manager owns one connection pool. Every named database is a table in it.
type Manager struct {
	db     *sql.DB
	config Config
	opened map[string]bool
	mu     sync.Mutex
}

// Open connects and pings the database.
func Open(ctx context.Context, config Config) (*Manager, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("%s: dsn is required", config.Dialect.Name)
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 30 * time.Second
	}

	sqlDB, err := sql.Open(config.Dialect.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, config.DefaultTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Manager{
		db:     sqlDB,
		config: config,
		opened: make(map[string]bool),
	}, nil
}

func tableName(name string) string {
	return name + "_rows"
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid database name %q", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil, database.ErrDBClosed
	}

	table := tableName(name)
	if !m.opened[name] {
		ctx, cancel := context.WithTimeout(context.Background(), m.config.DefaultTimeout)
		defer cancel()

		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (k %s PRIMARY KEY, v %s NOT NULL)",
			table, m.config.Dialect.BlobType, m.config.Dialect.BlobType)
		if _, err := m.db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("failed to initialize schema for %s: %w", name, err)
		}
		m.opened[name] = true
	}

	return &DB{
		db:    m.db,
		stmts: newStatements(m.config.Dialect, table),
		opts:  m.config.Dialect.SnapshotOptions,
	}, nil
}

// CloseDB forgets the table. The shared pool stays open.
func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.opened[name] {
		return fmt.Errorf("%w: %s", database.ErrNamespaceNotFound, name)
	}
	delete(m.opened, name)
	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	m.opened = make(map[string]bool)
	return err
}
