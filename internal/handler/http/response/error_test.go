package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "must be between 1 and 12"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid token", user.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", fmt.Errorf("recalc: %w", user.ErrInsufficientPermissions), http.StatusForbidden, "FORBIDDEN"},
		{"invalid kind", kpi.ErrInvalidKind, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"upstream", kpi.Upstream("shifts", errors.New("connection reset")), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "year", Message: "must be between 2000 and 2100"},
		{Field: "month", Message: "must be between 1 and 12"},
	})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"year":  "must be between 2000 and 2100",
		"month": "must be between 1 and 12",
	}, body.Error.Details)
}
