package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	_ "github.com/mattn/go-sqlite3"
)

// KpiCacheRepository stores derived payloads in a local SQLite file.
type KpiCacheRepository struct {
	db *sql.DB
}

// NewKpiCacheRepository opens the database at path and creates the schema.
// Use ":memory:" for a throwaway database.
func NewKpiCacheRepository(path string) (*KpiCacheRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	repo := &KpiCacheRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *KpiCacheRepository) Close() error {
	return r.db.Close()
}

func (r *KpiCacheRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kpi_cache (
		kind TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		payload BLOB NOT NULL,
		computed_at TEXT NOT NULL,
		computation_id TEXT NOT NULL,
		PRIMARY KEY (kind, year, month)
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Get implements kpi.CacheRepository.
func (r *KpiCacheRepository) Get(ctx context.Context, key kpi.Key) (kpi.CacheEntry, error) {
	var (
		payload    []byte
		computedAt string
		entry      = kpi.CacheEntry{Key: key}
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, computed_at, computation_id FROM kpi_cache WHERE kind = ? AND year = ? AND month = ?`,
		string(key.Kind), key.Year, key.Month,
	).Scan(&payload, &computedAt, &entry.ComputationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kpi.CacheEntry{}, kpi.ErrCacheMiss
		}
		return kpi.CacheEntry{}, fmt.Errorf("failed to get kpi cache entry %s: %w", key, err)
	}

	entry.ComputedAt, err = time.Parse(time.RFC3339Nano, computedAt)
	if err != nil {
		return kpi.CacheEntry{}, fmt.Errorf("invalid computed_at for %s: %w", key, err)
	}
	entry.Payload = payload

	return entry, nil
}

// Upsert implements kpi.CacheRepository.
func (r *KpiCacheRepository) Upsert(ctx context.Context, entry kpi.CacheEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kpi_cache (kind, year, month, payload, computed_at, computation_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, year, month) DO UPDATE SET
			payload = excluded.payload,
			computed_at = excluded.computed_at,
			computation_id = excluded.computation_id
	`,
		string(entry.Key.Kind), entry.Key.Year, entry.Key.Month,
		[]byte(entry.Payload), entry.ComputedAt.UTC().Format(time.RFC3339Nano), entry.ComputationID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert kpi cache entry %s: %w", entry.Key, err)
	}
	return nil
}
