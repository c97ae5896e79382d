package classifier

import (
	"fmt"
	"math"
)

// LogisticRegression is a linear model. A binary model has one coefficient
// row scoring the second class; a multiclass model has one row per class and
// uses softmax.
type LogisticRegression struct {
	base
	coef      [][]float64
	intercept []float64
}

// NewLogisticRegression validates the parameter shapes.
func NewLogisticRegression(featureNames []string, classes []int, coef [][]float64, intercept []float64) (*LogisticRegression, error) {
	b, err := newBase(featureNames, classes)
	if err != nil {
		return nil, err
	}
	rows := len(classes)
	if rows == 2 {
		rows = 1
	}
	if len(coef) != rows || len(intercept) != rows {
		return nil, fmt.Errorf("%w: want %d coefficient rows and intercepts, got %d and %d",
			ErrInvalidModel, rows, len(coef), len(intercept))
	}
	m := &LogisticRegression{base: b, coef: make([][]float64, rows), intercept: append([]float64(nil), intercept...)}
	for i, row := range coef {
		if len(row) != len(featureNames) {
			return nil, fmt.Errorf("%w: coefficient row %d has %d values, want %d",
				ErrInvalidModel, i, len(row), len(featureNames))
		}
		m.coef[i] = append([]float64(nil), row...)
	}
	return m, nil
}

// PredictProba returns class probabilities in Classes order.
func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if err := m.checkDim(x); err != nil {
		return nil, err
	}
	if len(m.coef) == 1 {
		p := sigmoid(dot(m.coef[0], x) + m.intercept[0])
		return []float64{1 - p, p}, nil
	}
	z := make([]float64, len(m.coef))
	maxZ := math.Inf(-1)
	for i, row := range m.coef {
		z[i] = dot(row, x) + m.intercept[i]
		maxZ = math.Max(maxZ, z[i])
	}
	var sum float64
	for i := range z {
		z[i] = math.Exp(z[i] - maxZ)
		sum += z[i]
	}
	for i := range z {
		z[i] /= sum
	}
	return z, nil
}

// Predict returns the most probable class code.
func (m *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return m.classOf(p), nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
