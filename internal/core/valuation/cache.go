package valuation

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stableex/sx.dmdvaults/internal/core/asset"
)

// DefaultCacheSize bounds the number of accounts memoized per session.
const DefaultCacheSize = 64

// Cache memoizes resource values by account for the lifetime of one
// session. It is never shared between sessions.
type Cache struct {
	values *lru.Cache[asset.Name, asset.Asset]

	// Metrics
	hits   uint64
	misses uint64
}

// NewCache creates an empty cache holding at most size accounts.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	values, err := lru.New[asset.Name, asset.Asset](size)
	if err != nil {
		return nil, err
	}
	return &Cache{values: values}, nil
}

// Get returns the memoized value of account.
func (c *Cache) Get(account asset.Name) (asset.Asset, bool) {
	value, found := c.values.Get(account)
	if found {
		c.hits++
		return value, true
	}
	c.misses++
	return asset.Asset{}, false
}

// Put memoizes value for account.
func (c *Cache) Put(account asset.Name, value asset.Asset) {
	c.values.Add(account, value)
}

func (c *Cache) Len() int {
	return c.values.Len()
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}
