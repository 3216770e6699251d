package contract

import "context"

// ContractRepository is the read-only port over contracts and yearly adjustments.
type ContractRepository interface {
	ListContracts(ctx context.Context, userID string) ([]Contract, error)
	// GetManualAdjustment returns nil, nil when the user has no adjustment for the year.
	GetManualAdjustment(ctx context.Context, userID string, year int) (*ManualAdjustment, error)
}
