package kpi

import (
	"errors"
	"fmt"
)

var (
	ErrCacheMiss    = errors.New("kpi cache entry not found")
	ErrUpstreamRead = errors.New("upstream repository read failed")
	ErrInvalidKind  = errors.New("invalid kpi kind")
)

// UpstreamError wraps a failed repository port read. It aborts the whole computation.
type UpstreamError struct {
	Port string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstreamRead, e.Port, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamRead, e.Err}
}

// Upstream wraps err as an UpstreamError for port, or returns nil.
func Upstream(port string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Port: port, Err: err}
}
