package view

import (
	"context"
	"fmt"

	"github.com/stableex/sx.dmdvaults/internal/core/ledger/codec"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry/entries"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
	"github.com/stableex/sx.dmdvaults/internal/storage/database"
)

// Row pairs an entry with the key it is stored under.
type Row struct {
	Key   keylet.Keylet
	Entry entries.Entry
}

// Writer stores typed rows. The oracle never writes; this is used for
// seeding and tests.
type Writer struct {
	db database.DB
}

func NewWriter(db database.DB) *Writer {
	return &Writer{db: db}
}

func encodeRow(row Row) ([]byte, error) {
	if row.Entry.Type() != row.Key.Type {
		return nil, fmt.Errorf("%w: %s under %s key", ErrTypeMismatch, row.Entry.Type(), row.Key.Type)
	}
	if row.Entry.PrimaryKey() != row.Key.Primary() {
		return nil, fmt.Errorf("%w: primary key %d under %d", ErrRowMismatch, row.Entry.PrimaryKey(), row.Key.Primary())
	}
	if err := row.Entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s row: %w", row.Entry.Type(), err)
	}
	return codec.Encode(row.Entry)
}

// Put stores a single row.
func (w *Writer) Put(ctx context.Context, k keylet.Keylet, e entries.Entry) error {
	data, err := encodeRow(Row{Key: k, Entry: e})
	if err != nil {
		return err
	}
	return w.db.Write(ctx, k.Bytes(), data)
}

// PutAll stores rows in one batch. Nothing is written if any row is invalid.
func (w *Writer) PutAll(ctx context.Context, rows []Row) error {
	ops := make([]database.BatchOperation, 0, len(rows))
	for _, row := range rows {
		data, err := encodeRow(row)
		if err != nil {
			return err
		}
		ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: row.Key.Bytes(), Value: data})
	}
	return w.db.Batch(ctx, ops)
}

// Erase removes the row at k.
func (w *Writer) Erase(ctx context.Context, k keylet.Keylet) error {
	return w.db.Delete(ctx, k.Bytes())
}
