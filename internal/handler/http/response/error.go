package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// KPI domain errors
	case errors.Is(err, kpi.ErrInvalidKind):
		ValidationError(w, map[string]string{"kind": "must be one of dashboard, payroll, timeAccount"})
	case errors.Is(err, kpi.ErrUpstreamRead):
		slog.Error("KPI upstream read failed", "error", err)
		InternalServerError(w, "Failed to read source data")
	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("KPI computation timed out", "error", err)
		InternalServerError(w, "Computation timed out")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
