package inference

import (
	"context"
	"fmt"
)

// ForestModel is an ensemble of regression trees, averaged (random forest)
// or summed with a learning rate on top of a base score (gradient boosting).
type ForestModel struct {
	name         string
	nFeatures    int
	aggregation  string
	baseScore    float64
	learningRate float64
	trees        []Tree
}

// NewForestModel validates tree structure and builds the ensemble
func NewForestModel(a Artifact) (*ForestModel, error) {
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("forest model has no trees")
	}
	for i, t := range a.Trees {
		if err := checkTree(t, a.NFeaturesIn); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	m := &ForestModel{
		name:         a.Name,
		nFeatures:    a.NFeaturesIn,
		aggregation:  a.Aggregation,
		baseScore:    a.BaseScore,
		learningRate: a.LearningRate,
		trees:        a.Trees,
	}
	if m.name == "" {
		m.name = "forest"
	}
	if m.aggregation == "" {
		m.aggregation = AggregateMean
	}
	if m.learningRate == 0 {
		m.learningRate = 1
	}
	return m, nil
}

// checkTree guarantees traversal terminates and never indexes out of range.
// Children always point forward, which rules out cycles.
func checkTree(t Tree, nFeatures int) error {
	n := len(t.ChildrenLeft)
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for node := 0; node < n; node++ {
		left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
		if left == -1 {
			if right != -1 {
				return fmt.Errorf("node %d: leaf with a right child", node)
			}
			continue
		}
		if left <= node || left >= n || right <= node || right >= n {
			return fmt.Errorf("node %d: child index out of range", node)
		}
		if f := t.Feature[node]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", node, f)
		}
	}
	return nil
}

// Name implements Model
func (m *ForestModel) Name() string { return m.name }

// ExpectedFeatures implements Model
func (m *ForestModel) ExpectedFeatures() int { return m.nFeatures }

// Predict implements Model
func (m *ForestModel) Predict(_ context.Context, features []float64) (float64, error) {
	if err := checkFeatureCount(m, features); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := range m.trees {
		sum += m.trees[i].eval(features)
	}

	if m.aggregation == AggregateSum {
		return m.baseScore + m.learningRate*sum, nil
	}
	return sum / float64(len(m.trees)), nil
}

func (t *Tree) eval(features []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}
