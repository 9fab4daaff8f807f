// Package sqldb stores key/value rows in a relational database through
// database/sql. Each named database is one two-column table.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stableex/sx.dmdvaults/internal/storage/database"
)

// queryer is the surface shared by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type statements struct {
	get, scanFrom, scanRange, upsert, del, pin string
}

func newStatements(d Dialect, table string) statements {
	p1, p2 := d.Placeholder(1), d.Placeholder(2)
	return statements{
		get:       fmt.Sprintf("SELECT v FROM %s WHERE k = %s", table, p1),
		scanFrom:  fmt.Sprintf("SELECT k, v FROM %s WHERE k >= %s ORDER BY k", table, p1),
		scanRange: fmt.Sprintf("SELECT k, v FROM %s WHERE k >= %s AND k < %s ORDER BY k", table, p1, p2),
		upsert: fmt.Sprintf("INSERT INTO %s (k, v) VALUES (%s, %s) ON CONFLICT (k) DO UPDATE SET v = excluded.v",
			table, p1, p2),
		del: fmt.Sprintf("DELETE FROM %s WHERE k = %s", table, p1),
		pin: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}
}

type DB struct {
	db    *sql.DB
	stmts statements
	opts  *sql.TxOptions
}

func read(ctx context.Context, q queryer, stmts statements, key []byte) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, stmts.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return value, nil
}

func iterate(ctx context.Context, q queryer, stmts statements, start, end []byte) (database.Iterator, error) {
	if start == nil {
		start = []byte{}
	}

	var (
		rows *sql.Rows
		err  error
	)
	if end == nil {
		rows, err = q.QueryContext(ctx, stmts.scanFrom, start)
	} else {
		rows, err = q.QueryContext(ctx, stmts.scanRange, start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan range: %w", err)
	}
	return &Iterator{rows: rows}, nil
}

func (s *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	return read(ctx, s.db, s.stmts, key)
}

func (s *DB) Write(ctx context.Context, key, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.stmts.upsert, key, value); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

func (s *DB) Delete(ctx context.Context, key []byte) error {
	if _, err := s.db.ExecContext(ctx, s.stmts.del, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (s *DB) Batch(ctx context.Context, ops []database.BatchOperation) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			_, err = tx.ExecContext(ctx, s.stmts.upsert, op.Key, op.Value)
		case database.BatchDelete:
			_, err = tx.ExecContext(ctx, s.stmts.del, op.Key)
		default:
			err = fmt.Errorf("%w: %d", database.ErrUnknownBatchOp, op.Type)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	return iterate(ctx, s.db, s.stmts, start, end)
}

// Snapshot opens a read transaction and pins it with a first query.
func (s *DB) Snapshot(ctx context.Context) (database.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}

	var n int64
	if err := tx.QueryRowContext(ctx, s.stmts.pin).Scan(&n); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to pin snapshot: %w", err)
	}
	return &Snapshot{tx: tx, stmts: s.stmts}, nil
}

// Snapshot reads through an open transaction. Iterators must be closed
// before the next query on the same snapshot.
type Snapshot struct {
	tx    *sql.Tx
	stmts statements
}

func (s *Snapshot) Read(ctx context.Context, key []byte) ([]byte, error) {
	return read(ctx, s.tx, s.stmts, key)
}

func (s *Snapshot) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	return iterate(ctx, s.tx, s.stmts, start, end)
}

func (s *Snapshot) Close() error {
	err := s.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

type Iterator struct {
	rows       *sql.Rows
	key, value []byte
	err        error
}

func (it *Iterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}
	var key, value []byte
	if err := it.rows.Scan(&key, &value); err != nil {
		it.err = err
		return false
	}
	it.key, it.value = key, value
	return true
}

func (it *Iterator) Key() []byte   { return it.key }
func (it *Iterator) Value() []byte { return it.value }

func (it *Iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

func (it *Iterator) Close() error {
	return it.rows.Close()
}
