// Package bbolt backs database.DB with a single bucket of a bbolt file.
package bbolt

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/stableex/sx.dmdvaults/internal/storage/database"
)

type DB struct {
	db     *bbolt.DB
	bucket []byte
}

func NewDB(db *bbolt.DB, bucket []byte) *DB {
	return &DB{db: db, bucket: bucket}
}

func (b *DB) bucketOf(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(b.bucket)
	if bucket == nil {
		return nil, fmt.Errorf("bucket %s not found", b.bucket)
	}
	return bucket, nil
}

// get copies the value out; bbolt memory is only valid inside the transaction.
func get(bucket *bbolt.Bucket, key []byte) ([]byte, error) {
	value := bucket.Get(key)
	if value == nil {
		return nil, database.ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (b *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if b.db == nil {
		return nil, database.ErrDBClosed
	}

	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}
		value, err = get(bucket, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *DB) Write(ctx context.Context, key, value []byte) error {
	if b.db == nil {
		return database.ErrDBClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.Put(key, value)
	})
}

func (b *DB) Delete(ctx context.Context, key []byte) error {
	if b.db == nil {
		return database.ErrDBClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.Delete(key)
	})
}

func (b *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if b.db == nil {
		return database.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}
		for _, op := range ops {
			switch op.Type {
			case database.BatchPut:
				err = bucket.Put(op.Key, op.Value)
			case database.BatchDelete:
				err = bucket.Delete(op.Key)
			default:
				return fmt.Errorf("%w: %d", database.ErrUnknownBatchOp, op.Type)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Iterator runs in its own read transaction, released by Close.
func (b *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	snap, err := b.begin()
	if err != nil {
		return nil, err
	}
	return &Iterator{cursor: snap.bucket.Cursor(), start: start, end: end, tx: snap.tx}, nil
}

// Snapshot holds a read transaction open until Close. A writer that has
// to grow the mmap waits for open snapshots, so keep them short lived.
func (b *DB) Snapshot(ctx context.Context) (database.Snapshot, error) {
	return b.begin()
}

func (b *DB) begin() (*Snapshot, error) {
	if b.db == nil {
		return nil, database.ErrDBClosed
	}
	tx, err := b.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	bucket, err := b.bucketOf(tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return &Snapshot{tx: tx, bucket: bucket}, nil
}

// Snapshot is a read-only bbolt transaction.
type Snapshot struct {
	tx     *bbolt.Tx
	bucket *bbolt.Bucket
}

func (s *Snapshot) Read(ctx context.Context, key []byte) ([]byte, error) {
	return get(s.bucket, key)
}

// Iterator shares the snapshot transaction; closing it leaves the
// snapshot open.
func (s *Snapshot) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	return &Iterator{cursor: s.bucket.Cursor(), start: start, end: end}, nil
}

func (s *Snapshot) Close() error {
	return s.tx.Rollback()
}

type Iterator struct {
	cursor     *bbolt.Cursor
	tx         *bbolt.Tx
	start, end []byte
	started    bool
	done       bool
	key, value []byte
}

func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	var k, v []byte
	if !it.started {
		it.started = true
		if it.start == nil {
			k, v = it.cursor.First()
		} else {
			k, v = it.cursor.Seek(it.start)
		}
	} else {
		k, v = it.cursor.Next()
	}

	if k == nil || (it.end != nil && bytes.Compare(k, it.end) >= 0) {
		it.done = true
		it.key, it.value = nil, nil
		return false
	}
	it.key = append([]byte(nil), k...)
	it.value = append([]byte(nil), v...)
	return true
}

func (it *Iterator) Key() []byte   { return it.key }
func (it *Iterator) Value() []byte { return it.value }
func (it *Iterator) Error() error  { return nil }

func (it *Iterator) Close() error {
	it.done = true
	if it.tx == nil {
		return nil
	}
	tx := it.tx
	it.tx = nil
	return tx.Rollback()
}
