package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
)

type kpiCacheRepositoryImpl struct {
	mu      sync.RWMutex
	entries map[kpi.Key]kpi.CacheEntry
}

// NewKpiCacheRepository returns a process-local cache. Entries are lost on restart.
func NewKpiCacheRepository() kpi.CacheRepository {
	return &kpiCacheRepositoryImpl{entries: make(map[kpi.Key]kpi.CacheEntry)}
}

func (r *kpiCacheRepositoryImpl) Get(ctx context.Context, key kpi.Key) (kpi.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	if !ok {
		return kpi.CacheEntry{}, kpi.ErrCacheMiss
	}
	entry.Payload = append([]byte(nil), entry.Payload...)
	return entry, nil
}

func (r *kpiCacheRepositoryImpl) Upsert(ctx context.Context, entry kpi.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry.Payload = append([]byte(nil), entry.Payload...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Key] = entry
	return nil
}
