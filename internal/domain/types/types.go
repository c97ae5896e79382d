// Package types contains response types shared by the service and HTTP API.
package types

import "github.com/okian/jobaccept/internal/domain/candidate"

// Health states.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// Prediction is one scored candidate as returned to clients.
type Prediction struct {
	PredictionID string `json:"prediction_id"`
	Label        string `json:"label"`
	// DisplayLabel is Label upper-cased for rendering.
	DisplayLabel  string             `json:"display_label"`
	Confidence    float64            `json:"confidence"`
	Code          int                `json:"code"`
	Probabilities map[string]float64 `json:"probabilities"`
	Derived       candidate.Derived  `json:"derived"`
	Cached        bool               `json:"cached"`
}

// Health reports which parts of the service are usable.
type Health struct {
	Status          string `json:"status"`
	DatasetLoaded   bool   `json:"dataset_loaded"`
	ArtifactsLoaded bool   `json:"artifacts_loaded"`
	DatasetError    string `json:"dataset_error,omitempty"`
	ArtifactsError  string `json:"artifacts_error,omitempty"`
}

// Schema describes the prediction form.
type Schema struct {
	Fields        []candidate.FieldSpec `json:"fields"`
	ModelFeatures []string              `json:"model_features,omitempty"`
	Labels        []string              `json:"labels,omitempty"`
}
