package artifact

import (
	"math"
	"testing"
)

func TestScalerTransform(t *testing.T) {
	s := &Scaler{Mean: []float64{10, 0}, Scale: []float64{2, 0}}

	out, err := s.Transform([]float64{14, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != 2 {
		t.Errorf("out[0] = %v, want 2", out[0])
	}
	// Zero scale falls back to centering only.
	if out[1] != 3 {
		t.Errorf("out[1] = %v, want 3", out[1])
	}

	if _, err := s.Transform([]float64{1}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestLinearModelPredict(t *testing.T) {
	m := &LinearModel{ModelName: "ridgecv", Coef: []float64{2, -1}, Intercept: 0.5}

	got, err := m.Predict([]float64{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2.5 {
		t.Errorf("Predict = %v, want 2.5", got)
	}

	if _, err := m.Predict([]float64{3}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestTreeEnsemblePredict(t *testing.T) {
	// One tree splitting on feature 0 at 5.0, plus a base score.
	m := &TreeEnsembleModel{
		ModelName: "xgboost",
		BaseScore: 1,
		Trees: [][]TreeNode{
			{
				{Feature: 0, Threshold: 5, Left: 1, Right: 2},
				{Leaf: true, Value: -2},
				{Leaf: true, Value: 3},
			},
		},
	}

	left, err := m.Predict([]float64{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left != -1 {
		t.Errorf("left branch = %v, want -1", left)
	}

	right, err := m.Predict([]float64{5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if right != 4 {
		t.Errorf("right branch = %v, want 4", right)
	}
}

func TestTreeEnsemblePredictBadFeatureIndex(t *testing.T) {
	m := &TreeEnsembleModel{
		ModelName: "xgboost",
		Trees: [][]TreeNode{
			{
				{Feature: 9, Threshold: 5, Left: 1, Right: 2},
				{Leaf: true, Value: 0},
				{Leaf: true, Value: 0},
			},
		},
	}

	if _, err := m.Predict([]float64{1, 2}); err == nil {
		t.Error("expected out-of-range feature error")
	}
	if err := m.Validate(2); err == nil {
		t.Error("expected validation error for feature index 9 with 2 inputs")
	}
}

func TestTreeEnsemblePredictDeterministic(t *testing.T) {
	m := &TreeEnsembleModel{
		ModelName: "xgboost",
		BaseScore: 0.25,
		Trees: [][]TreeNode{
			{
				{Feature: 1, Threshold: 0, Left: 1, Right: 2},
				{Leaf: true, Value: 1.5},
				{Leaf: true, Value: -0.5},
			},
			{
				{Leaf: true, Value: 2},
			},
		},
	}

	x := []float64{math.Pi, -1}
	first, err := m.Predict(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Predict(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("predictions differ: %v vs %v", first, second)
	}
	if first != 3.75 {
		t.Errorf("Predict = %v, want 3.75", first)
	}
}
