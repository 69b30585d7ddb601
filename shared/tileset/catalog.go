package tileset

import (
	"context"
	"io/fs"
	"sort"
	"sync"
)

// Catalog is an in-memory store of loaded tilesets keyed by path. It is safe
// for concurrent use. Concurrent misses on the same path may both load the
// document; the first stored value wins.
type Catalog struct {
	mu      sync.RWMutex
	fsys    fs.FS
	opts    Options
	entries map[string]*Tileset
}

func NewCatalog(fsys fs.FS, opts Options) *Catalog {
	return &Catalog{
		fsys:    fsys,
		opts:    opts,
		entries: make(map[string]*Tileset),
	}
}

// Get returns the tileset at path, loading it on first use.
func (c *Catalog) Get(p string) (*Tileset, error) {
	c.mu.RLock()
	ts, ok := c.entries[p]
	c.mu.RUnlock()
	if ok {
		return ts, nil
	}

	ts, err := LoadWith(c.fsys, p, c.opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[p]; ok {
		return existing, nil
	}
	c.entries[p] = ts
	return ts, nil
}

// Preload loads every .tsx below dir into the catalog.
func (c *Catalog) Preload(ctx context.Context, dir string) error {
	loaded, _, err := LoadAll(ctx, c.fsys, dir, c.opts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for p, ts := range loaded {
		if _, ok := c.entries[p]; !ok {
			c.entries[p] = ts
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Put(ts *Tileset) {
	c.mu.Lock()
	c.entries[ts.Path] = ts
	c.mu.Unlock()
}

// Evict drops path from the catalog so the next Get reloads it.
func (c *Catalog) Evict(p string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[p]; !ok {
		return false
	}
	delete(c.entries, p)
	return true
}

// List returns the cached paths in sorted order.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, 0, len(c.entries))
	for p := range c.entries {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
