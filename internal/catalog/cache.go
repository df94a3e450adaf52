package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nvalden/arsenal/internal/domain"
)

// CacheSchemaVersion is the current version of the cached entry shape.
// Increment when cachedDefinitionEntry changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// cachedDefinitionEntry wraps a definition with version metadata for
// cache invalidation.
type cachedDefinitionEntry struct {
	Version    string
	Definition *domain.WeaponDefinition
	CachedAt   time.Time
}

// definitionCache is an in-memory LRU for by-id definition lookups with
// time-based expiration. The importer purges it after a successful ingest.
type definitionCache struct {
	lru *expirable.LRU[string, *cachedDefinitionEntry]
}

func newDefinitionCache(size int, ttl time.Duration) *definitionCache {
	return &definitionCache{
		lru: expirable.NewLRU[string, *cachedDefinitionEntry](size, nil, ttl),
	}
}

// Get returns (definition, true) on a fresh hit. Entries written by an
// older schema version are removed and reported as a miss.
func (c *definitionCache) Get(id string) (*domain.WeaponDefinition, bool) {
	entry, found := c.lru.Get(id)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(id)
		return nil, false
	}
	return entry.Definition, true
}

func (c *definitionCache) Set(id string, def *domain.WeaponDefinition) {
	c.lru.Add(id, &cachedDefinitionEntry{
		Version:    CacheSchemaVersion,
		Definition: def,
		CachedAt:   time.Now(),
	})
}

func (c *definitionCache) Invalidate(id string) {
	c.lru.Remove(id)
}

func (c *definitionCache) Clear() {
	c.lru.Purge()
}

func (c *definitionCache) Len() int {
	return c.lru.Len()
}
