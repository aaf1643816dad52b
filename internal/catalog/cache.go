package catalog

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/rotisserie/eris"
)

// Entry is a cached catalog pull.
type Entry struct {
	Records   []models.PriceRecord
	FetchedAt time.Time
}

// Cache stores catalog pulls by key. Callers inject one; there is no
// package-level instance.
type Cache interface {
	Get(key string) (Entry, bool)
	Set(key string, records []models.PriceRecord)
	IsStale(key string) bool
}

// LRUCache is a bounded Cache whose entries go stale after a TTL. Stale
// entries stay readable until evicted.
type LRUCache struct {
	entries *lru.Cache[string, Entry]
	ttl     time.Duration
	now     func() time.Time
}

// NewLRUCache creates a cache holding at most size entries.
func NewLRUCache(size int, ttl time.Duration) (*LRUCache, error) {
	entries, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, eris.Wrap(err, "create catalog cache")
	}
	return &LRUCache{entries: entries, ttl: ttl, now: time.Now}, nil
}

func (c *LRUCache) Get(key string) (Entry, bool) {
	return c.entries.Get(key)
}

func (c *LRUCache) Set(key string, records []models.PriceRecord) {
	c.entries.Add(key, Entry{Records: records, FetchedAt: c.now()})
}

// IsStale is true for missing entries and entries older than the TTL.
func (c *LRUCache) IsStale(key string) bool {
	e, ok := c.entries.Peek(key)
	if !ok {
		return true
	}
	return c.now().Sub(e.FetchedAt) > c.ttl
}
