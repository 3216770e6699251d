package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *KpiCacheRepository {
	t.Helper()
	repo, err := NewKpiCacheRepository(filepath.Join(t.TempDir(), "kpi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestKpiCacheRepository_GetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	key := kpi.Key{Kind: kpi.KindPayroll, Year: 2025, Month: 3}

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, kpi.ErrCacheMiss)

	entry := kpi.CacheEntry{
		Key:           key,
		Payload:       json.RawMessage(`{"rows":[],"totals":{"users":0}}`),
		ComputedAt:    time.Date(2025, time.April, 1, 8, 30, 0, 123, time.UTC),
		ComputationID: "run-1",
	}
	require.NoError(t, repo.Upsert(ctx, entry))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	entry.ComputationID = "run-2"
	entry.Payload = json.RawMessage(`{"rows":[{"user_id":"u1"}]}`)
	require.NoError(t, repo.Upsert(ctx, entry))

	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.ComputationID)
	assert.Equal(t, string(entry.Payload), string(got.Payload))
}

func TestKpiCacheRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi.db")
	ctx := context.Background()
	key := kpi.Key{Kind: kpi.KindDashboard, Year: 2024, Month: 12}

	repo, err := NewKpiCacheRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, kpi.CacheEntry{Key: key, Payload: json.RawMessage(`{}`), ComputedAt: time.Now().UTC(), ComputationID: "run-1"}))
	require.NoError(t, repo.Close())

	reopened, err := NewKpiCacheRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ComputationID)
}
