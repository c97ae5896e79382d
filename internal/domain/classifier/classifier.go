// Package classifier evaluates trained models exported as JSON: logistic
// regression, a decision tree or a random forest.
package classifier

import (
	"fmt"
)

// Classifier is a trained model. It is immutable and safe for concurrent use.
type Classifier interface {
	// FeatureNames is the exact input schema, in vector order.
	FeatureNames() []string
	// Classes lists the target codes in probability order.
	Classes() []int
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
}

// base carries the schema shared by every model type.
type base struct {
	featureNames []string
	classes      []int
}

func newBase(featureNames []string, classes []int) (base, error) {
	if len(featureNames) == 0 {
		return base{}, fmt.Errorf("%w: no feature names", ErrInvalidModel)
	}
	seen := make(map[string]struct{}, len(featureNames))
	for _, n := range featureNames {
		if _, dup := seen[n]; dup {
			return base{}, fmt.Errorf("%w: duplicate feature %q", ErrInvalidModel, n)
		}
		seen[n] = struct{}{}
	}
	if len(classes) < 2 {
		return base{}, fmt.Errorf("%w: need at least 2 classes, got %d", ErrInvalidModel, len(classes))
	}
	return base{
		featureNames: append([]string(nil), featureNames...),
		classes:      append([]int(nil), classes...),
	}, nil
}

func (b base) FeatureNames() []string { return append([]string(nil), b.featureNames...) }

func (b base) Classes() []int { return append([]int(nil), b.classes...) }

func (b base) checkDim(x []float64) error {
	if len(x) != len(b.featureNames) {
		return fmt.Errorf("%w: got %d values, want %d", ErrDimension, len(x), len(b.featureNames))
	}
	return nil
}

// classOf maps the highest-probability index to its class code; ties go to
// the lower index.
func (b base) classOf(proba []float64) int {
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return b.classes[best]
}
