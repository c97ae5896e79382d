package classifier

import (
	"fmt"
)

// TreeNode is one node of an exported decision tree. Internal nodes send x
// left when x[FeatureIdx] <= Threshold. Leaves carry per-class weights in
// Classes order (sample counts or fractions).
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	IsLeaf     bool      `json:"is_leaf"`
	Value      []float64 `json:"value,omitempty"`
}

// tree is a validated node array rooted at index 0.
type tree struct {
	nodes []TreeNode
}

func newTree(nodes []TreeNode, nFeatures, nClasses int) (*tree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrInvalidModel)
	}
	t := &tree{nodes: make([]TreeNode, len(nodes))}
	for i, n := range nodes {
		if n.IsLeaf {
			if len(n.Value) != nClasses {
				return nil, fmt.Errorf("%w: leaf %d has %d values, want %d", ErrInvalidModel, i, len(n.Value), nClasses)
			}
			var sum float64
			for _, v := range n.Value {
				if v < 0 {
					return nil, fmt.Errorf("%w: leaf %d has a negative weight", ErrInvalidModel, i)
				}
				sum += v
			}
			if sum == 0 {
				return nil, fmt.Errorf("%w: leaf %d has no weight", ErrInvalidModel, i)
			}
			n.Value = append([]float64(nil), n.Value...)
			t.nodes[i] = n
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= nFeatures {
			return nil, fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidModel, i, n.FeatureIdx, nFeatures)
		}
		for _, c := range []int{n.LeftChild, n.RightChild} {
			if c <= i || c >= len(nodes) {
				return nil, fmt.Errorf("%w: node %d has child %d out of range", ErrInvalidModel, i, c)
			}
		}
		t.nodes[i] = n
	}
	return t, nil
}

// proba walks to a leaf and returns its normalized weights. Children always
// follow their parent, so the walk terminates.
func (t *tree) proba(x []float64) []float64 {
	idx := 0
	for !t.nodes[idx].IsLeaf {
		n := t.nodes[idx]
		if x[n.FeatureIdx] <= n.Threshold {
			idx = n.LeftChild
		} else {
			idx = n.RightChild
		}
	}
	leaf := t.nodes[idx].Value
	var sum float64
	for _, v := range leaf {
		sum += v
	}
	out := make([]float64, len(leaf))
	for i, v := range leaf {
		out[i] = v / sum
	}
	return out
}

// DecisionTree is a single exported tree.
type DecisionTree struct {
	base
	tree *tree
}

// NewDecisionTree validates the node array.
func NewDecisionTree(featureNames []string, classes []int, nodes []TreeNode) (*DecisionTree, error) {
	b, err := newBase(featureNames, classes)
	if err != nil {
		return nil, err
	}
	t, err := newTree(nodes, len(featureNames), len(classes))
	if err != nil {
		return nil, err
	}
	return &DecisionTree{base: b, tree: t}, nil
}

// PredictProba returns the leaf distribution in Classes order.
func (m *DecisionTree) PredictProba(x []float64) ([]float64, error) {
	if err := m.checkDim(x); err != nil {
		return nil, err
	}
	return m.tree.proba(x), nil
}

// Predict returns the majority class of the reached leaf.
func (m *DecisionTree) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return m.classOf(p), nil
}

// RandomForest averages the leaf distributions of its trees.
type RandomForest struct {
	base
	trees []*tree
}

// NewRandomForest validates every tree.
func NewRandomForest(featureNames []string, classes []int, trees [][]TreeNode) (*RandomForest, error) {
	b, err := newBase(featureNames, classes)
	if err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrInvalidModel)
	}
	f := &RandomForest{base: b, trees: make([]*tree, len(trees))}
	for i, nodes := range trees {
		t, err := newTree(nodes, len(featureNames), len(classes))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		f.trees[i] = t
	}
	return f, nil
}

// PredictProba returns the mean of the per-tree distributions.
func (m *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if err := m.checkDim(x); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.classes))
	for _, t := range m.trees {
		for i, p := range t.proba(x) {
			out[i] += p
		}
	}
	n := float64(len(m.trees))
	for i := range out {
		out[i] /= n
	}
	return out, nil
}

// Predict returns the class with the highest mean probability.
func (m *RandomForest) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return m.classOf(p), nil
}
