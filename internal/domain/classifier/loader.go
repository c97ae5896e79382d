package classifier

import (
	"encoding/json"
	"fmt"
	"io"
)

// Model document types.
const (
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
)

// document is the JSON envelope every exported model shares.
type document struct {
	Type         string       `json:"type"`
	FeatureNames []string     `json:"feature_names"`
	Classes      []int        `json:"classes"`
	Coef         [][]float64  `json:"coef,omitempty"`
	Intercept    []float64    `json:"intercept,omitempty"`
	Nodes        []TreeNode   `json:"nodes,omitempty"`
	Trees        [][]TreeNode `json:"trees,omitempty"`
}

// Load reads a model document and builds the matching classifier.
func Load(r io.Reader) (Classifier, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidModel, err)
	}
	switch doc.Type {
	case TypeLogisticRegression:
		return NewLogisticRegression(doc.FeatureNames, doc.Classes, doc.Coef, doc.Intercept)
	case TypeDecisionTree:
		return NewDecisionTree(doc.FeatureNames, doc.Classes, doc.Nodes)
	case TypeRandomForest:
		return NewRandomForest(doc.FeatureNames, doc.Classes, doc.Trees)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, doc.Type)
	}
}
