package postgresql_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKpiCacheRepository_GetUpsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewKpiCacheRepository(setup.DB)
	key := kpi.Key{Kind: kpi.KindTimeAccount, Year: 2025, Month: 3}

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, kpi.ErrCacheMiss)

	entry := kpi.CacheEntry{
		Key:           key,
		Payload:       json.RawMessage(`{"year":2025,"month":3,"rows":[]}`),
		ComputedAt:    time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC),
		ComputationID: uuid.NewString(),
	}
	require.NoError(t, repo.Upsert(ctx, entry))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entry.ComputationID, got.ComputationID)
	assert.True(t, entry.ComputedAt.Equal(got.ComputedAt))
	assert.Equal(t, []byte(`{"year":2025,"month":3,"rows":[]}`), []byte(got.Payload))

	entry.ComputationID = uuid.NewString()
	entry.Payload = json.RawMessage(`{"year":2025,"month":3,"rows":[{"user_id":"u1","employee_name":"Ada"}]}`)
	require.NoError(t, repo.Upsert(ctx, entry))

	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entry.ComputationID, got.ComputationID)
	assert.Equal(t, []byte(entry.Payload), []byte(got.Payload))
}

func TestKpiCacheRepository_UpsertInsideTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))

	repo := postgresql.NewKpiCacheRepository(setup.DB)
	key := kpi.Key{Kind: kpi.KindDashboard, Year: 2025, Month: 4}

	tx, err := setup.DB.BeginTx(ctx)
	require.NoError(t, err)
	txCtx := postgresql.ContextWithTx(ctx, tx)
	require.NoError(t, repo.Upsert(txCtx, kpi.CacheEntry{
		Key: key, Payload: json.RawMessage(`{}`), ComputedAt: time.Now().UTC(), ComputationID: uuid.NewString(),
	}))
	require.NoError(t, tx.Rollback(ctx))

	_, err = repo.Get(ctx, key)
	assert.ErrorIs(t, err, kpi.ErrCacheMiss)
}
