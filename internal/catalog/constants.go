package catalog

import "time"

const (
	// DefaultCacheSize bounds the by-id definition cache. The catalog of a
	// single game rarely exceeds a few hundred definitions.
	DefaultCacheSize = 512
	// DefaultCacheTTL keeps cached definitions fresh even if an invalidation
	// is missed.
	DefaultCacheTTL = 5 * time.Minute
)
