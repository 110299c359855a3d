package services

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"catalog-dashboard/models"
	"catalog-dashboard/storage"
	"catalog-dashboard/utils"
)

// CatalogCache memoizes Loader results keyed by path and content digest.
// The file is re-read on every Get so an edited file is never served stale.
type CatalogCache struct {
	loader *Loader
	logger *utils.Logger
	lru    *lru.Cache[string, *models.Catalog]

	mu     sync.Mutex // serializes loads so one miss parses once
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCatalogCache creates a cache holding at most size snapshots
func NewCatalogCache(loader *Loader, size int, logger *utils.Logger) (*CatalogCache, error) {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[string, *models.Catalog](size)
	if err != nil {
		return nil, err
	}
	return &CatalogCache{loader: loader, logger: logger, lru: c}, nil
}

func cacheKey(path, digest string) string {
	return filepath.Clean(path) + "\x00" + digest
}

// Get returns the catalog for the current contents of path
func (c *CatalogCache) Get(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classifyReadError(path, err)
	}
	key := cacheKey(path, storage.Digest(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	if cat, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return cat, nil
	}
	c.misses.Add(1)

	cat, err := c.loader.LoadBytes(path, data)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, cat)
	return cat, nil
}

// Invalidate drops every cached snapshot of path
func (c *CatalogCache) Invalidate(path string) {
	prefix := filepath.Clean(path) + "\x00"
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("Invalidated %d cached snapshot(s) of %s", removed, path)
	}
}

// Len returns the number of cached snapshots
func (c *CatalogCache) Len() int {
	return c.lru.Len()
}

// Hits returns how many Gets were served from the cache
func (c *CatalogCache) Hits() uint64 {
	return c.hits.Load()
}

// Misses returns how many Gets had to load the file
func (c *CatalogCache) Misses() uint64 {
	return c.misses.Load()
}
