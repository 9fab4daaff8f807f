package database

import (
	"context"
)

// Reader is the read-only half of a database. Snapshots and live
// databases both implement it.
type Reader interface {
	// Read returns ErrKeyNotFound when key is absent
	Read(ctx context.Context, key []byte) ([]byte, error)

	// Iterator walks keys in [start, end). A nil end means no upper bound.
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// DB defines the basic operations any database implementation must support
type DB interface {
	Reader

	// Basic operations
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch operations
	Batch(ctx context.Context, ops []BatchOperation) error

	// Snapshot pins the current state. Reads through it never observe
	// writes made after it was taken.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is a consistent read-only view of a DB.
type Snapshot interface {
	Reader
	Close() error
}

// Manager handles the lifecycle of databases
type Manager interface {
	// OpenDB opens or creates a database with the given name
	OpenDB(name string) (DB, error)

	// CloseDB closes a specific database
	CloseDB(name string) error

	// Close closes all databases
	Close() error
}

// Iterator allows traversing over database entries
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation represents a single operation in a batch
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
