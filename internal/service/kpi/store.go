package kpi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Computer produces the payload for a key from upstream data.
type Computer interface {
	Compute(ctx context.Context, key kpi.Key) (json.RawMessage, error)
}

// ComputeFunc adapts a function to Computer.
type ComputeFunc func(ctx context.Context, key kpi.Key) (json.RawMessage, error)

func (f ComputeFunc) Compute(ctx context.Context, key kpi.Key) (json.RawMessage, error) {
	return f(ctx, key)
}

// Store is a get-or-recompute cache. Concurrent misses or forced refreshes for
// the same key share a single computation and its outcome. A forced caller only
// accepts a result that was computed, never one read back from the cache.
type Store struct {
	repo     kpi.CacheRepository
	computer Computer
	timeout  time.Duration
	flights  singleflight.Group
	now      func() time.Time
}

// NewStore builds a Store. A zero timeout leaves computations unbounded.
func NewStore(repo kpi.CacheRepository, computer Computer, timeout time.Duration) *Store {
	return &Store{
		repo:     repo,
		computer: computer,
		timeout:  timeout,
		now:      time.Now,
	}
}

// GetOrRecalc returns the cached entry for key, computing it on a miss or when
// force is set. A failed computation leaves any previous entry untouched.
func (s *Store) GetOrRecalc(ctx context.Context, key kpi.Key, force bool) (kpi.CacheEntry, error) {
	if !force {
		entry, err := s.repo.Get(ctx, key)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, kpi.ErrCacheMiss) {
			return kpi.CacheEntry{}, fmt.Errorf("read kpi cache %s: %w", key, err)
		}
	}

	// The flight outlives the caller that started it; others may be waiting on it.
	flightCtx := context.WithoutCancel(ctx)
	for {
		ch := s.flights.DoChan(key.String(), func() (any, error) {
			return s.recompute(flightCtx, key, force)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return kpi.CacheEntry{}, ctx.Err()
		case res = <-ch:
		}
		if res.Err != nil {
			return kpi.CacheEntry{}, res.Err
		}

		out := res.Val.(flightResult)
		// A forced caller that joined a non-forced flight answered from the
		// cache has not had its recomputation yet.
		if force && !out.computed {
			continue
		}
		return out.entry, nil
	}
}

type flightResult struct {
	entry    kpi.CacheEntry
	computed bool
}

func (s *Store) recompute(ctx context.Context, key kpi.Key, force bool) (flightResult, error) {
	if !force {
		// another flight may have stored the entry since the caller's miss
		entry, err := s.repo.Get(ctx, key)
		if err == nil {
			return flightResult{entry: entry}, nil
		}
		if !errors.Is(err, kpi.ErrCacheMiss) {
			return flightResult{}, fmt.Errorf("read kpi cache %s: %w", key, err)
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	started := s.now()
	logger := slog.With("kind", key.Kind, "year", key.Year, "month", key.Month, "computation_id", runID)

	payload, err := s.computer.Compute(ctx, key)
	if err != nil {
		logger.Error("KPI computation failed", "forced", force, "error", err)
		return flightResult{}, err
	}

	entry := kpi.CacheEntry{
		Key:           key,
		Payload:       payload,
		ComputedAt:    s.now().UTC(),
		ComputationID: runID,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		logger.Error("Failed to store KPI payload", "error", err)
		return flightResult{}, fmt.Errorf("store kpi cache %s: %w", key, err)
	}

	logger.Info("KPI computed", "forced", force, "payload_bytes", len(payload), "duration_ms", s.now().Sub(started).Milliseconds())
	return flightResult{entry: entry, computed: true}, nil
}
