package kpi

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
)

type KpiServiceImpl struct {
	store *Store
}

func NewKpiService(store *Store) kpi.KpiService {
	return &KpiServiceImpl{store: store}
}

func (s *KpiServiceImpl) Get(ctx context.Context, req kpi.KpiRequest) (kpi.KpiResponse, error) {
	if err := req.Validate(); err != nil {
		return kpi.KpiResponse{}, err
	}

	entry, err := s.store.GetOrRecalc(ctx, req.Key(), false)
	if err != nil {
		return kpi.KpiResponse{}, err
	}
	return toResponse(entry), nil
}

// Recalculate runs kinds one after another so a failure stops the remaining ones.
func (s *KpiServiceImpl) Recalculate(ctx context.Context, req kpi.RecalcRequest) ([]kpi.KpiResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	keys := req.Keys()
	responses := make([]kpi.KpiResponse, 0, len(keys))
	for _, key := range keys {
		entry, err := s.store.GetOrRecalc(ctx, key, true)
		if err != nil {
			return nil, err
		}
		responses = append(responses, toResponse(entry))
	}
	return responses, nil
}

func toResponse(e kpi.CacheEntry) kpi.KpiResponse {
	return kpi.KpiResponse{
		Kind:          string(e.Key.Kind),
		Year:          e.Key.Year,
		Month:         e.Key.Month,
		ComputedAt:    e.ComputedAt.UTC().Format(time.RFC3339),
		ComputationID: e.ComputationID,
		Payload:       e.Payload,
	}
}
