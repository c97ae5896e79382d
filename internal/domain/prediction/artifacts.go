package prediction

import (
	"fmt"

	"github.com/okian/jobaccept/internal/domain/encoding"
)

// Scaler standardizes numeric features in FeatureNames order.
type Scaler interface {
	FeatureNames() []string
	Transform(x []float64) ([]float64, error)
}

// Model is the trained classifier contract the pipeline consumes.
type Model interface {
	FeatureNames() []string
	Classes() []int
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
}

// Artifacts bundles the four trained objects. They are loaded once and never
// mutated afterwards.
type Artifacts struct {
	Model    Model
	Target   *encoding.LabelEncoder
	Encoders *encoding.Table
	Scaler   Scaler
}

func (a Artifacts) check() error {
	var missing []string
	if a.Model == nil {
		missing = append(missing, "model")
	}
	if a.Target == nil {
		missing = append(missing, "target encoder")
	}
	if a.Encoders == nil {
		missing = append(missing, "feature encoders")
	}
	if a.Scaler == nil {
		missing = append(missing, "scaler")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrIncompleteArtifacts, missing)
	}
	return nil
}
