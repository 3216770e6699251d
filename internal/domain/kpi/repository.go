package kpi

import "context"

// CacheRepository persists derived payloads keyed by (kind, year, month).
type CacheRepository interface {
	// Get returns ErrCacheMiss when no entry exists for key.
	Get(ctx context.Context, key Key) (CacheEntry, error)
	// Upsert writes the whole entry, replacing any previous one for the same key.
	Upsert(ctx context.Context, entry CacheEntry) error
}
