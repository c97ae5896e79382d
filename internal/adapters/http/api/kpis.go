package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/jobaccept/internal/domain/kpi"
)

// KPIDependencies defines the interface for dataset aggregates.
type KPIDependencies interface {
	KPIs(ctx context.Context) (kpi.Summary, error)
	Breakdown(ctx context.Context) (kpi.Breakdown, error)
}

// KPIHandler handles KPI requests.
type KPIHandler struct {
	deps KPIDependencies
}

// NewKPIHandler creates a new KPI handler.
func NewKPIHandler(deps KPIDependencies) *KPIHandler {
	return &KPIHandler{deps: deps}
}

// HandleSummary handles GET /kpis requests.
func (h *KPIHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	summary, err := h.deps.KPIs(r.Context())
	if err != nil {
		writeKPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleBreakdown handles GET /kpis/breakdown requests.
func (h *KPIHandler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	breakdown, err := h.deps.Breakdown(r.Context())
	if err != nil {
		writeKPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func writeKPIError(w http.ResponseWriter, err error) {
	if errors.Is(err, kpi.ErrEmptyDataset) {
		writeError(w, http.StatusUnprocessableEntity, "empty_dataset", err)
		return
	}
	writeError(w, http.StatusServiceUnavailable, "dataset_unavailable", err)
}
