package sqldb

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	Name   string
	Driver string
	// BlobType is the column type for raw keys and values
	BlobType string
	// SnapshotOptions starts a transaction that sees a single consistent state
	SnapshotOptions *sql.TxOptions

	numbered bool
}

var (
	SQLite = Dialect{
		Name:     "sqlite",
		Driver:   "sqlite",
		BlobType: "BLOB",
		// sqlite transactions are serializable; the read snapshot is pinned
		// by the first SELECT inside the transaction
		SnapshotOptions: nil,
	}

	Postgres = Dialect{
		Name:     "postgres",
		Driver:   "postgres",
		BlobType: "BYTEA",
		SnapshotOptions: &sql.TxOptions{
			Isolation: sql.LevelRepeatableRead,
			ReadOnly:  true,
		},
		numbered: true,
	}
)

// DialectByName resolves "sqlite" or "postgres".
func DialectByName(name string) (Dialect, error) {
	switch name {
	case SQLite.Name:
		return SQLite, nil
	case Postgres.Name:
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported sql dialect %q", name)
}

// Placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// SQLiteDSN builds a file DSN with WAL journaling so readers holding a
// snapshot do not block writers.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}
