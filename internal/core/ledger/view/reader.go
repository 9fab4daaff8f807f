// Package view provides typed access to ledger table rows.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/codec"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry/entries"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
	"github.com/stableex/sx.dmdvaults/internal/storage/database"
)

//go:generate mockgen -source=reader.go -destination=mock/mock_reader.go

var (
	ErrTypeMismatch = errors.New("entry type does not match keylet")
	ErrRowMismatch  = errors.New("stored row does not match its key")
)

// Reader is the read-only ledger surface the oracle depends on.
type Reader interface {
	// LookupSupply returns the supply row of a token, found=false when absent.
	LookupSupply(issuer asset.Name, code asset.SymbolCode) (entries.CurrencyStat, bool, error)

	// LookupBalance returns the balance of account, or a zero asset when the
	// account holds none.
	LookupBalance(account, issuer asset.Name, sym asset.Symbol) (asset.Asset, error)

	// LookupByKey decodes the row at k into out.
	LookupByKey(k keylet.Keylet, out entries.Entry) (bool, error)

	// TableIsEmpty reports whether t has no rows.
	TableIsEmpty(t keylet.Table) (bool, error)

	// ReadFirst decodes the row of t with the lowest primary key into out.
	ReadFirst(t keylet.Table, out entries.Entry) (bool, error)
}

// StateReader implements Reader over a database.Reader, typically a snapshot.
type StateReader struct {
	ctx context.Context
	src database.Reader
}

func NewStateReader(ctx context.Context, src database.Reader) *StateReader {
	return &StateReader{ctx: ctx, src: src}
}

func (r *StateReader) LookupByKey(k keylet.Keylet, out entries.Entry) (bool, error) {
	if out.Type() != k.Type {
		return false, fmt.Errorf("%w: %s into %s", ErrTypeMismatch, k.Type, out.Type())
	}

	data, err := r.src.Read(r.ctx, k.Bytes())
	if errors.Is(err, database.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s row: %w", k.Type, err)
	}

	if err := codec.Decode(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s row: %w", k.Type, err)
	}
	return true, nil
}

func (r *StateReader) LookupSupply(issuer asset.Name, code asset.SymbolCode) (entries.CurrencyStat, bool, error) {
	var stat entries.CurrencyStat
	found, err := r.LookupByKey(keylet.Supply(issuer, code), &stat)
	if err != nil || !found {
		return entries.CurrencyStat{}, found, err
	}
	if stat.Supply.Sym().Code() != code {
		return entries.CurrencyStat{}, false, fmt.Errorf("%w: supply of %s holds %s", ErrRowMismatch, code, stat.Supply.Sym())
	}
	return stat, true, nil
}

func (r *StateReader) LookupBalance(account, issuer asset.Name, sym asset.Symbol) (asset.Asset, error) {
	ext := asset.ExtendedSymbol{Symbol: sym, Contract: issuer}

	var row entries.AccountBalance
	found, err := r.LookupByKey(keylet.Balance(account, issuer, sym.Code()), &row)
	if err != nil {
		return asset.Asset{}, err
	}
	if !found {
		return asset.Zero(ext), nil
	}
	if row.Balance.Sym() != sym {
		return asset.Asset{}, fmt.Errorf("%w: balance of %s holds %s", ErrRowMismatch, ext, row.Balance.Sym())
	}
	return row.Balance.Asset(issuer), nil
}

func (r *StateReader) TableIsEmpty(t keylet.Table) (bool, error) {
	start, end := t.Range()
	it, err := r.src.Iterator(r.ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to scan %s: %w", t, err)
	}
	defer it.Close()

	if it.Next() {
		return false, nil
	}
	return true, it.Error()
}

func (r *StateReader) ReadFirst(t keylet.Table, out entries.Entry) (bool, error) {
	if out.Type() != t.Type {
		return false, fmt.Errorf("%w: %s into %s", ErrTypeMismatch, t.Type, out.Type())
	}

	start, end := t.Range()
	it, err := r.src.Iterator(r.ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to scan %s: %w", t, err)
	}
	defer it.Close()

	if !it.Next() {
		return false, it.Error()
	}
	if err := codec.Decode(it.Value(), out); err != nil {
		return false, fmt.Errorf("failed to decode first row of %s: %w", t, err)
	}
	return true, nil
}
