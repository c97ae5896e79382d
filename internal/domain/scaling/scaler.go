// Package scaling standardizes numeric features with the mean and scale fitted
// at training time.
package scaling

import (
	"encoding/json"
	"fmt"
)

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	names []string
	mean  []float64
	scale []float64
}

// NewStandardScaler validates and builds a scaler. A zero scale is treated
// as 1, which leaves constant features centered but unscaled.
func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no feature names", ErrInvalidScaler)
	}
	if len(mean) != len(names) || len(scale) != len(names) {
		return nil, fmt.Errorf("%w: %d names, %d means, %d scales", ErrInvalidScaler, len(names), len(mean), len(scale))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrInvalidScaler, n)
		}
		seen[n] = struct{}{}
	}
	s := &StandardScaler{
		names: append([]string(nil), names...),
		mean:  append([]float64(nil), mean...),
		scale: make([]float64, len(scale)),
	}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// FeatureNames returns the features in the order Transform expects.
func (s *StandardScaler) FeatureNames() []string {
	return append([]string(nil), s.names...)
}

// Transform standardizes x, which must follow FeatureNames order.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.names) {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrDimension, len(x), len(s.names))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

type scalerJSON struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// UnmarshalJSON reads {"feature_names": [...], "mean": [...], "scale": [...]}.
func (s *StandardScaler) UnmarshalJSON(data []byte) error {
	var raw scalerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewStandardScaler(raw.FeatureNames, raw.Mean, raw.Scale)
	if err != nil {
		return err
	}
	*s = *built
	return nil
}

// MarshalJSON writes the scaler in the shape UnmarshalJSON reads.
func (s *StandardScaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(scalerJSON{FeatureNames: s.names, Mean: s.mean, Scale: s.scale})
}
