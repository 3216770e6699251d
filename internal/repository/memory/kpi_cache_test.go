package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKpiCacheRepository_GetUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewKpiCacheRepository()
	key := kpi.Key{Kind: kpi.KindPayroll, Year: 2025, Month: 3}

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, kpi.ErrCacheMiss)

	first := kpi.CacheEntry{Key: key, Payload: json.RawMessage(`{"v":1}`), ComputedAt: time.Unix(100, 0).UTC(), ComputationID: "run-1"}
	require.NoError(t, repo.Upsert(ctx, first))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := kpi.CacheEntry{Key: key, Payload: json.RawMessage(`{"v":2}`), ComputedAt: time.Unix(200, 0).UTC(), ComputationID: "run-2"}
	require.NoError(t, repo.Upsert(ctx, second))

	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.ComputationID)
	assert.Equal(t, `{"v":2}`, string(got.Payload))

	_, err = repo.Get(ctx, kpi.Key{Kind: kpi.KindDashboard, Year: 2025, Month: 3})
	assert.ErrorIs(t, err, kpi.ErrCacheMiss)
}

func TestKpiCacheRepository_PayloadIsCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewKpiCacheRepository()
	key := kpi.Key{Kind: kpi.KindDashboard, Year: 2025, Month: 1}
	payload := []byte(`{"a":1}`)

	require.NoError(t, repo.Upsert(ctx, kpi.CacheEntry{Key: key, Payload: payload}))
	payload[2] = 'b'

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got.Payload))
}
