package regress

import (
	"errors"
	"fmt"
	"math"
)

// Tree is a binary regression tree in sklearn's flat array layout. Node 0
// is the root; a node is a leaf when ChildrenLeft is -1.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
	// MissingLeft sends NaN inputs left at a split. Empty means right.
	MissingLeft []bool `json:"missing_left,omitempty"`
}

const leaf = -1

var errMalformedTree = errors.New("malformed tree")

// Predict walks the tree for x. inclusive selects x <= threshold (sklearn)
// instead of x < threshold (xgboost) for the left branch.
func (t *Tree) Predict(x []float64, inclusive bool) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.ChildrenLeft); steps++ {
		if node < 0 || node >= len(t.ChildrenLeft) {
			return 0, fmt.Errorf("%w: node %d out of range", errMalformedTree, node)
		}
		if t.ChildrenLeft[node] == leaf {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(x) {
			return 0, fmt.Errorf("tree: %w: feature %d of %d", ErrDimension, f, len(x))
		}
		v := x[f]
		var left bool
		switch {
		case math.IsNaN(v):
			left = node < len(t.MissingLeft) && t.MissingLeft[node]
		case inclusive:
			left = v <= t.Threshold[node]
		default:
			left = v < t.Threshold[node]
		}
		if left {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return 0, fmt.Errorf("%w: cycle detected", errMalformedTree)
}

func (t *Tree) validate(width int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("%w: no nodes", errMalformedTree)
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("%w: node arrays differ in length", errMalformedTree)
	}
	for i := range n {
		if t.ChildrenLeft[i] == leaf {
			continue
		}
		if t.ChildrenLeft[i] < 0 || t.ChildrenLeft[i] >= n || t.ChildrenRight[i] < 0 || t.ChildrenRight[i] >= n {
			return fmt.Errorf("%w: node %d has invalid children", errMalformedTree, i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= width {
			return fmt.Errorf("tree: %w: node %d splits on feature %d, row has %d", ErrDimension, i, t.Feature[i], width)
		}
	}
	return nil
}

// Ensemble aggregation modes.
const (
	AggregateSum  = "sum"
	AggregateMean = "mean"
)

// TreeEnsemble combines regression trees: gradient boosting sums
// BaseScore + LearningRate*tree outputs, random forests average them.
type TreeEnsemble struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	Aggregation  string  `json:"aggregation,omitempty"`
	Inclusive    bool    `json:"inclusive,omitempty"`
	Trees        []Tree  `json:"trees"`
}

// Predict returns the ensemble output for x.
func (e *TreeEnsemble) Predict(x []float64) (float64, error) {
	if len(e.Trees) == 0 {
		return e.BaseScore, nil
	}
	sum := 0.0
	for i := range e.Trees {
		v, err := e.Trees[i].Predict(x, e.Inclusive)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	if e.Aggregation == AggregateMean {
		return e.BaseScore + sum/float64(len(e.Trees)), nil
	}
	lr := e.LearningRate
	if lr == 0 {
		lr = 1
	}
	return e.BaseScore + lr*sum, nil
}

// Validate checks every tree against the feature row width.
func (e *TreeEnsemble) Validate(width int) error {
	switch e.Aggregation {
	case "", AggregateSum, AggregateMean:
	default:
		return fmt.Errorf("tree ensemble: unknown aggregation %q", e.Aggregation)
	}
	for i := range e.Trees {
		if err := e.Trees[i].validate(width); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
