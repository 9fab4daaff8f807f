// Package fixture loads ledger rows from YAML seed files.
package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/entry/entries"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/view"
	"gopkg.in/yaml.v3"
)

// File is a seed document. Amounts use the "1.0000 EOS" notation.
type File struct {
	Supplies    []Supply     `yaml:"supplies"`
	Balances    []Balance    `yaml:"balances"`
	RexBalances []RexBalance `yaml:"rex_balances"`
	RexPool     *RexPool     `yaml:"rex_pool"`
	Stakes      []Stake      `yaml:"stakes"`
	Pending     []Pending    `yaml:"pending"`
}

type Supply struct {
	Issuer    string `yaml:"issuer"`
	Supply    string `yaml:"supply"`
	MaxSupply string `yaml:"max_supply"`
}

type Balance struct {
	Account  string `yaml:"account"`
	Contract string `yaml:"contract"`
	Balance  string `yaml:"balance"`
}

type RexBalance struct {
	Owner      string `yaml:"owner"`
	VoteStake  string `yaml:"vote_stake"`
	RexBalance string `yaml:"rex_balance"`
	MaturedRex int64  `yaml:"matured_rex"`
}

type RexPool struct {
	TotalLent       string `yaml:"total_lent"`
	TotalUnlent     string `yaml:"total_unlent"`
	TotalRent       string `yaml:"total_rent"`
	TotalLendable   string `yaml:"total_lendable"`
	TotalRex        string `yaml:"total_rex"`
	NamebidProceeds string `yaml:"namebid_proceeds"`
	LoanNum         uint64 `yaml:"loan_num"`
}

type Stake struct {
	Contract string `yaml:"contract"`
	Owner    string `yaml:"owner"`
	Staked   string `yaml:"staked"`
}

type Pending struct {
	Contract    string `yaml:"contract"`
	ID          uint64 `yaml:"id"`
	Owner       string `yaml:"owner"`
	Quantity    string `yaml:"quantity"`
	RequestedAt uint32 `yaml:"requested_at"`
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a seed document, rejecting unknown fields.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// quantity parses an amount whose issuer is implied by the table.
func quantity(s string) (entries.Quantity, error) {
	a, err := asset.ParseAsset(s, 0)
	if err != nil {
		return entries.Quantity{}, err
	}
	return entries.NewQuantity(a), nil
}

// optionalQuantity returns a zero amount of like when s is empty.
func optionalQuantity(s string, like entries.Quantity) (entries.Quantity, error) {
	if s == "" {
		return entries.Quantity{Symbol: like.Symbol}, nil
	}
	return quantity(s)
}

// Rows converts the document into keyed ledger rows.
func (f *File) Rows() ([]view.Row, error) {
	var rows []view.Row

	for i, s := range f.Supplies {
		issuer, err := asset.ParseName(s.Issuer)
		if err != nil {
			return nil, fmt.Errorf("supplies[%d]: %w", i, err)
		}
		supply, err := quantity(s.Supply)
		if err != nil {
			return nil, fmt.Errorf("supplies[%d]: %w", i, err)
		}
		maxSupply, err := optionalQuantity(s.MaxSupply, supply)
		if err != nil {
			return nil, fmt.Errorf("supplies[%d]: %w", i, err)
		}
		code := supply.Sym().Code()
		rows = append(rows, view.Row{
			Key:   keylet.Supply(issuer, code),
			Entry: &entries.CurrencyStat{Supply: supply, MaxSupply: maxSupply, Issuer: issuer},
		})
	}

	for i, b := range f.Balances {
		account, err := asset.ParseName(b.Account)
		if err != nil {
			return nil, fmt.Errorf("balances[%d]: %w", i, err)
		}
		contract, err := asset.ParseName(b.Contract)
		if err != nil {
			return nil, fmt.Errorf("balances[%d]: %w", i, err)
		}
		bal, err := quantity(b.Balance)
		if err != nil {
			return nil, fmt.Errorf("balances[%d]: %w", i, err)
		}
		rows = append(rows, view.Row{
			Key:   keylet.Balance(account, contract, bal.Sym().Code()),
			Entry: &entries.AccountBalance{Balance: bal},
		})
	}

	for i, r := range f.RexBalances {
		owner, err := asset.ParseName(r.Owner)
		if err != nil {
			return nil, fmt.Errorf("rex_balances[%d]: %w", i, err)
		}
		rex, err := quantity(r.RexBalance)
		if err != nil {
			return nil, fmt.Errorf("rex_balances[%d]: %w", i, err)
		}
		vote, err := optionalQuantity(r.VoteStake, entries.Quantity{})
		if err != nil {
			return nil, fmt.Errorf("rex_balances[%d]: %w", i, err)
		}
		rows = append(rows, view.Row{
			Key: keylet.RexBalance(owner),
			Entry: &entries.RexBalance{
				Owner:      owner,
				VoteStake:  vote,
				RexBalance: rex,
				MaturedRex: r.MaturedRex,
			},
		})
	}

	if p := f.RexPool; p != nil {
		pool, err := p.entry()
		if err != nil {
			return nil, fmt.Errorf("rex_pool: %w", err)
		}
		rows = append(rows, view.Row{Key: keylet.RexPool(pool.LoanNum), Entry: pool})
	}

	for i, s := range f.Stakes {
		contract, err := asset.ParseName(s.Contract)
		if err != nil {
			return nil, fmt.Errorf("stakes[%d]: %w", i, err)
		}
		owner, err := asset.ParseName(s.Owner)
		if err != nil {
			return nil, fmt.Errorf("stakes[%d]: %w", i, err)
		}
		staked, err := quantity(s.Staked)
		if err != nil {
			return nil, fmt.Errorf("stakes[%d]: %w", i, err)
		}
		rows = append(rows, view.Row{
			Key:   keylet.Stake(contract, owner),
			Entry: &entries.StakeRecord{Owner: owner, Staked: staked},
		})
	}

	for i, p := range f.Pending {
		contract, err := asset.ParseName(p.Contract)
		if err != nil {
			return nil, fmt.Errorf("pending[%d]: %w", i, err)
		}
		owner, err := asset.ParseName(p.Owner)
		if err != nil {
			return nil, fmt.Errorf("pending[%d]: %w", i, err)
		}
		qty, err := quantity(p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pending[%d]: %w", i, err)
		}
		rows = append(rows, view.Row{
			Key: keylet.Pending(contract, p.ID),
			Entry: &entries.PendingRedemption{
				ID:          p.ID,
				Owner:       owner,
				Quantity:    qty,
				RequestedAt: p.RequestedAt,
			},
		})
	}

	return rows, nil
}

func (p *RexPool) entry() (*entries.RexPool, error) {
	lent, err := quantity(p.TotalLent)
	if err != nil {
		return nil, err
	}
	unlent, err := quantity(p.TotalUnlent)
	if err != nil {
		return nil, err
	}
	rex, err := quantity(p.TotalRex)
	if err != nil {
		return nil, err
	}

	pool := &entries.RexPool{
		TotalLent:   lent,
		TotalUnlent: unlent,
		TotalRex:    rex,
		LoanNum:     p.LoanNum,
	}
	if pool.TotalRent, err = optionalQuantity(p.TotalRent, lent); err != nil {
		return nil, err
	}
	if pool.TotalLendable, err = optionalQuantity(p.TotalLendable, lent); err != nil {
		return nil, err
	}
	if pool.NamebidProceeds, err = optionalQuantity(p.NamebidProceeds, lent); err != nil {
		return nil, err
	}
	return pool, nil
}

// Apply writes every row of f in one batch and returns the row count.
func Apply(ctx context.Context, w *view.Writer, f *File) (int, error) {
	rows, err := f.Rows()
	if err != nil {
		return 0, err
	}
	if err := w.PutAll(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
