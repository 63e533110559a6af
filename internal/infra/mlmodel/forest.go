package mlmodel

import (
	"fmt"
	"slices"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

// Kinds of forest artifacts.
const (
	KindRegressor  = "regressor"
	KindClassifier = "classifier"
)

// Artifact is the serialized form of a trained random forest.
type Artifact struct {
	Version  string    `json:"version"`
	Kind     string    `json:"kind"`
	Features []string  `json:"features"`
	Classes  []float64 `json:"classes,omitempty"`
	Trees    []Tree    `json:"trees"`
}

// Tree stores nodes in a flat array; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split when Feature >= 0 and a leaf otherwise. Samples go left
// when x[Feature] <= Threshold. Leaf Value holds the regression output or,
// for classifiers, per class weights.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Forest is a validated, read-only ensemble safe for concurrent use.
type Forest struct {
	version  string
	kind     string
	features []string
	classes  []float64
	trees    []Tree
}

// NewForest validates the artifact against the expected feature order.
func NewForest(a Artifact, expectedFeatures []string) (*Forest, error) {
	if a.Kind != KindRegressor && a.Kind != KindClassifier {
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
	if !slices.Equal(a.Features, expectedFeatures) {
		return nil, fmt.Errorf("model features %v do not match expected %v", a.Features, expectedFeatures)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	width := 1
	if a.Kind == KindClassifier {
		if len(a.Classes) == 0 {
			return nil, fmt.Errorf("classifier model has no classes")
		}
		width = len(a.Classes)
	}
	for i, tree := range a.Trees {
		if err := validateTree(tree, len(a.Features), width); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &Forest{
		version:  a.Version,
		kind:     a.Kind,
		features: slices.Clone(a.Features),
		classes:  slices.Clone(a.Classes),
		trees:    a.Trees,
	}, nil
}

func validateTree(t Tree, features, width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Feature < 0 {
			if len(n.Value) != width {
				return fmt.Errorf("leaf %d has %d values, want %d", i, len(n.Value), width)
			}
			continue
		}
		if n.Feature >= features {
			return fmt.Errorf("node %d splits on unknown feature %d", i, n.Feature)
		}
		// Children must point forward so traversal always terminates.
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// Version reports the artifact version.
func (f *Forest) Version() string { return f.version }

// Kind reports whether the forest is a regressor or classifier.
func (f *Forest) Kind() string { return f.kind }

// Predict returns the mean leaf value for regressors and the class with the
// highest mean probability for classifiers.
func (f *Forest) Predict(x []float64) (float64, error) {
	if err := f.checkInput(x); err != nil {
		return 0, err
	}
	if f.kind == KindClassifier {
		proba := f.proba(x)
		best := 0
		for i := range proba {
			if proba[i] > proba[best] {
				best = i
			}
		}
		return f.classes[best], nil
	}
	var sum float64
	for _, t := range f.trees {
		sum += leaf(t, x).Value[0]
	}
	return sum / float64(len(f.trees)), nil
}

func (f *Forest) proba(x []float64) []float64 {
	out := make([]float64, len(f.classes))
	for _, t := range f.trees {
		values := leaf(t, x).Value
		var total float64
		for _, v := range values {
			total += v
		}
		if total <= 0 {
			continue
		}
		for i, v := range values {
			out[i] += v / total
		}
	}
	for i := range out {
		out[i] /= float64(len(f.trees))
	}
	return out
}

func (f *Forest) checkInput(x []float64) error {
	if len(x) != len(f.features) {
		return fmt.Errorf("expected %d features, got %d", len(f.features), len(x))
	}
	return nil
}

func leaf(t Tree, x []float64) Node {
	n := t.Nodes[0]
	for n.Feature >= 0 {
		if x[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n
}

// Model exposes the forest to the engine. Only classifiers satisfy
// irrigation.ProbabilisticModel, so regressors get the fixed confidence.
func (f *Forest) Model() irrigation.Model {
	if f.kind == KindClassifier {
		return &Classifier{forest: f}
	}
	return &Regressor{forest: f}
}

// Regressor is a forest predicting the water amount directly.
type Regressor struct {
	forest *Forest
}

// Predict returns the mean leaf value.
func (r *Regressor) Predict(x []float64) (float64, error) {
	return r.forest.Predict(x)
}

// Classifier is a forest over discretized water amounts.
type Classifier struct {
	forest *Forest
}

// Predict returns the most probable class value.
func (c *Classifier) Predict(x []float64) (float64, error) {
	return c.forest.Predict(x)
}

// PredictProba averages per tree class distributions.
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	if err := c.forest.checkInput(x); err != nil {
		return nil, err
	}
	return c.forest.proba(x), nil
}

var (
	_ irrigation.Model              = (*Regressor)(nil)
	_ irrigation.ProbabilisticModel = (*Classifier)(nil)
)
