package client

import (
	"context"
	"log"
	"sync"
	"time"
)

// Key is the composite identity of a cache entry: the resource name plus a
// parameter string (page, filters). The zero Params is the unparameterized
// entry.
type Key struct {
	Resource Resource
	Params   string
}

// Fetcher loads the authoritative value for a key.
type Fetcher func(ctx context.Context) (any, error)

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// Cache is the client's keyed TTL cache. Reads within the freshness window
// are served directly; reads past it serve the last-known value while one
// background refresh runs (stale-while-revalidate). Invalidation removes
// entries synchronously, before the mutation that triggered it reports
// success, so no re-render can observe a pre-mutation value.
type Cache struct {
	TTL time.Duration

	mu         sync.Mutex
	entries    map[Key]*cacheEntry
	refreshing map[Key]bool

	// now is swappable for tests.
	now func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		TTL:        ttl,
		entries:    map[Key]*cacheEntry{},
		refreshing: map[Key]bool{},
		now:        time.Now,
	}
}

// Get returns the cached value for key, fetching on a miss. A stale hit is
// returned immediately and refreshed in the background; only one refresh per
// key runs at a time. Background refresh failures keep the stale value and
// are logged rather than surfaced, since no view initiated them.
func (c *Cache) Get(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		stale := c.now().Sub(entry.fetchedAt) > c.TTL
		if stale && !c.refreshing[key] {
			c.refreshing[key] = true
			go c.refresh(key, fetch)
		}
		value := entry.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()
	return c.fetchInto(ctx, key, fetch)
}

// GetFresh bypasses stale serving: a stale or missing entry blocks on a
// fetch. Consumers that cannot tolerate a stale read (the payment page
// re-reading a booking) use this.
func (c *Cache) GetFresh(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Sub(entry.fetchedAt) <= c.TTL {
		value := entry.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()
	return c.fetchInto(ctx, key, fetch)
}

// Invalidate drops every entry of the resource, whatever its parameters.
// Paginated lists are cached per page, so this is what keeps page 2 from
// surviving a mutation that only re-fetched page 1.
func (c *Cache) Invalidate(resources ...Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, res := range resources {
		for key := range c.entries {
			if key.Resource == res {
				delete(c.entries, key)
			}
		}
	}
}

// Apply invalidates the resources the mutation declares in the dependency
// table. It runs synchronously on the mutating goroutine.
func (c *Cache) Apply(m Mutation) {
	c.Invalidate(Invalidations[m]...)
}

// Reset drops everything. Sign-out calls this so no role-scoped data leaks
// into the next session.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[Key]*cacheEntry{}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fetchInto(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = &cacheEntry{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
	return value, nil
}

func (c *Cache) refresh(key Key, fetch Fetcher) {
	defer func() {
		c.mu.Lock()
		delete(c.refreshing, key)
		c.mu.Unlock()
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	value, err := fetch(ctx)
	if err != nil {
		log.Printf("background refresh of %s/%s failed: %s\n", key.Resource, key.Params, err.Error())
		return
	}
	c.mu.Lock()
	c.entries[key] = &cacheEntry{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}
