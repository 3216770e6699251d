package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type KpiHandler interface {
	// Get handles GET /kpi/{kind}/{year}/{month}
	Get(w http.ResponseWriter, r *http.Request)
	// Recalculate handles POST /kpi/recalc
	Recalculate(w http.ResponseWriter, r *http.Request)
}

type kpiHandlerImpl struct {
	kpiService kpi.KpiService
}

func NewKpiHandler(kpiService kpi.KpiService) KpiHandler {
	return &kpiHandlerImpl{kpiService: kpiService}
}

func (h *kpiHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	year, ok := validator.ParseNumber(chi.URLParam(r, "year"))
	if !ok {
		errs.Add("year", "must be a number")
	}
	month, ok := validator.ParseNumber(chi.URLParam(r, "month"))
	if !ok {
		errs.Add("month", "must be a number")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	req := kpi.KpiRequest{
		Kind:  chi.URLParam(r, "kind"),
		Year:  year,
		Month: month,
	}

	result, err := h.kpiService.Get(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *kpiHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req kpi.RecalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.kpiService.Recalculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "KPI recalculated", result)
}
