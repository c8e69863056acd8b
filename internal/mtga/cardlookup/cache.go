package cardlookup

import (
	"sync"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

// Cache memoizes resolved card metadata by normalized key.
// Entries are never evicted; metadata is immutable per key.
type Cache struct {
	mu      sync.RWMutex
	entries map[cards.Key]cards.Metadata
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cards.Key]cards.Metadata)}
}

// Get returns the cached metadata for key.
func (c *Cache) Get(key cards.Key) (cards.Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	md, ok := c.entries[key]
	return md, ok
}

// PutIfAbsent stores md under its key unless an entry already exists.
// It returns the entry that ends up cached and whether md was the one stored.
func (c *Cache) PutIfAbsent(md cards.Metadata) (cards.Metadata, bool) {
	key := md.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing, false
	}
	c.entries[key] = md
	return md, true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
