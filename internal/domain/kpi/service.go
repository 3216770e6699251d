package kpi

import "context"

// KpiService is the boundary used by HTTP handlers and the operator CLI.
type KpiService interface {
	// Get returns the cached payload, computing and storing it on a miss.
	Get(ctx context.Context, req KpiRequest) (KpiResponse, error)

	// Recalculate forces recomputation of one kind, or of every kind when req.Kind is empty.
	Recalculate(ctx context.Context, req RecalcRequest) ([]KpiResponse, error)
}
