package content

import (
	"context"
	"sync"
	"time"

	"flashdeck/feature/content/models"

	"golang.org/x/sync/singleflight"
)

// CatalogEntry is one module with its sets, as served to the browse screens.
type CatalogEntry struct {
	Module models.Module `json:"module"`
	Sets   []models.Set  `json:"sets"`
}

// Catalog caches the full module/set listing. The browse screens hit this on
// every page load, so the listing is rebuilt at most once per TTL, with
// singleflight preventing a stampede when it expires.
type Catalog struct {
	store *Store
	ttl   time.Duration

	mu      sync.RWMutex
	entries []CatalogEntry
	built   time.Time

	sf singleflight.Group
}

// NewCatalog creates a catalog cache. A zero TTL disables caching.
func NewCatalog(store *Store, ttl time.Duration) *Catalog {
	return &Catalog{store: store, ttl: ttl}
}

func (c *Catalog) expired() bool {
	if c.ttl == 0 {
		return true
	}
	return time.Since(c.built) > c.ttl
}

// Get returns the cached catalog, rebuilding it when expired.
func (c *Catalog) Get(ctx context.Context) ([]CatalogEntry, error) {
	c.mu.RLock()
	if !c.expired() {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		// Double-check after winning the singleflight slot
		c.mu.RLock()
		if !c.expired() {
			entries := c.entries
			c.mu.RUnlock()
			return entries, nil
		}
		c.mu.RUnlock()

		entries, err := c.build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries = entries
		c.built = time.Now()
		c.mu.Unlock()

		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]CatalogEntry), nil
}

// Invalidate drops the cached listing so the next Get rebuilds it. Imports
// call this after mutating content.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.built = time.Time{}
	c.mu.Unlock()
}

func (c *Catalog) build(ctx context.Context) ([]CatalogEntry, error) {
	modules, err := c.store.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	sets, err := c.store.ListSets(ctx)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string][]models.Set, len(modules))
	for _, set := range sets {
		byModule[set.ModuleCode] = append(byModule[set.ModuleCode], set)
	}

	entries := make([]CatalogEntry, 0, len(modules))
	for _, m := range modules {
		entries = append(entries, CatalogEntry{Module: m, Sets: byModule[m.ModuleCode]})
	}
	return entries, nil
}
