package api

import (
	"net/http"

	"github.com/okian/jobaccept/internal/domain/types"
)

// SchemaProvider describes the prediction form.
type SchemaProvider interface {
	Schema() types.Schema
}

// SchemaHandler handles form schema requests.
type SchemaHandler struct {
	provider SchemaProvider
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(provider SchemaProvider) *SchemaHandler {
	return &SchemaHandler{provider: provider}
}

// HandleSchema handles GET /schema requests.
func (h *SchemaHandler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Schema())
}
