package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type kpiCacheRepositoryImpl struct {
	db *database.DB
}

func NewKpiCacheRepository(db *database.DB) kpi.CacheRepository {
	return &kpiCacheRepositoryImpl{db: db}
}

// Get implements kpi.CacheRepository.
func (r *kpiCacheRepositoryImpl) Get(ctx context.Context, key kpi.Key) (kpi.CacheEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT payload, computed_at, computation_id::text
		FROM kpi_cache
		WHERE kind = $1 AND year = $2 AND month = $3
	`

	entry := kpi.CacheEntry{Key: key}
	var payload []byte
	err := q.QueryRow(ctx, query, string(key.Kind), key.Year, key.Month).Scan(&payload, &entry.ComputedAt, &entry.ComputationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpi.CacheEntry{}, kpi.ErrCacheMiss
		}
		return kpi.CacheEntry{}, fmt.Errorf("failed to get kpi cache entry %s: %w", key, err)
	}
	entry.Payload = payload
	entry.ComputedAt = entry.ComputedAt.UTC()

	return entry, nil
}

// Upsert implements kpi.CacheRepository.
func (r *kpiCacheRepositoryImpl) Upsert(ctx context.Context, entry kpi.CacheEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO kpi_cache (kind, year, month, payload, computed_at, computation_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (kind, year, month) DO UPDATE SET
			payload = EXCLUDED.payload,
			computed_at = EXCLUDED.computed_at,
			computation_id = EXCLUDED.computation_id
	`

	_, err := q.Exec(ctx, query,
		string(entry.Key.Kind), entry.Key.Year, entry.Key.Month,
		[]byte(entry.Payload), entry.ComputedAt, entry.ComputationID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert kpi cache entry %s: %w", entry.Key, err)
	}

	return nil
}
