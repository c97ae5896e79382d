package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"

	service "github.com/okian/jobaccept/internal/app"
	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/internal/domain/prediction"
	"github.com/okian/jobaccept/internal/domain/types"
)

// maxPredictBody bounds a candidate payload.
const maxPredictBody = 64 << 10

// PredictDependencies defines the interface for scoring candidates.
type PredictDependencies interface {
	Predict(ctx context.Context, rec candidate.Record) (types.Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", fmt.Errorf("%s: %w", op, ErrUnsupportedMedia))
			return
		}
	}

	rec, err := candidate.Decode(http.MaxBytesReader(w, r.Body, maxPredictBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Errorf("%s: %w", op, ErrPayloadTooLarge))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	out, err := h.deps.Predict(r.Context(), rec)
	if err != nil {
		switch {
		case errors.Is(err, prediction.ErrSchemaMismatch):
			writeError(w, http.StatusUnprocessableEntity, "schema_mismatch", err)
		case errors.Is(err, service.ErrPredictionUnavailable):
			writeError(w, http.StatusServiceUnavailable, "prediction_unavailable", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, out)
}
