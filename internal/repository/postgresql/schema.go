package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// kpiCacheSchema owns only the derived cache. Upstream tables belong to the HRIS schema.
// payload is BYTEA so reads return the exact bytes written; JSONB would reorder keys.
var kpiCacheSchema = []string{
	`CREATE TABLE IF NOT EXISTS kpi_cache (
		kind           TEXT        NOT NULL,
		year           INTEGER     NOT NULL,
		month          INTEGER     NOT NULL,
		payload        BYTEA       NOT NULL,
		computed_at    TIMESTAMPTZ NOT NULL,
		computation_id UUID        NOT NULL,
		CONSTRAINT pk_kpi_cache PRIMARY KEY (kind, year, month),
		CONSTRAINT chk_kpi_cache_month CHECK (month BETWEEN 1 AND 12)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kpi_cache_computed_at ON kpi_cache (computed_at)`,
	`DO $$
	BEGIN
		IF EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'kpi_cache' AND column_name = 'payload' AND data_type = 'jsonb'
		) THEN
			ALTER TABLE kpi_cache ALTER COLUMN payload TYPE BYTEA USING convert_to(payload::text, 'UTF8');
		END IF;
	END $$`,
}

// Migrate creates the kpi_cache table and its indexes in one transaction.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range kpiCacheSchema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply kpi cache schema: %w", err)
			}
		}
		return nil
	})
}
