package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	// ListActive returns employees employed at any point of [start, endExclusive).
	ListActive(ctx context.Context, start, endExclusive time.Time) ([]Employee, error)
}
