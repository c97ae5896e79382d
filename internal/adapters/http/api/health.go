// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/jobaccept/internal/domain/types"
	"github.com/okian/jobaccept/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthProvider reports service health.
type HealthProvider interface {
	Health() types.Health
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	provider HealthProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(provider HealthProvider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

// HandleHealth handles GET /healthz requests. A degraded service answers 503
// with the same body so probes can see which part failed.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	health := h.provider.Health()
	status := http.StatusOK
	if health.Status != types.HealthOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// MetricsHandler serves the Prometheus exposition from the custom registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
