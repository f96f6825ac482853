package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Model is a frozen regressor restored from the persisted bundle. Inference
// is deterministic; a failed call will fail identically on retry.
type Model interface {
	Name() string
	Predict(x []float64) (float64, error)
	// Validate checks the model against the number of inputs it will receive.
	Validate(inputCount int) error
}

// Scaler standardizes a feature vector using per-feature statistics fixed at
// training time. Statistics are never recomputed from live data.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns a standardized copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			// Constant feature at training time; centering alone suffices.
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// Validate checks the scaler's statistics against the expected feature count.
func (s *Scaler) Validate(featureCount int) error {
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler has %d means but %d scales", len(s.Mean), len(s.Scale))
	}
	if len(s.Mean) != featureCount {
		return fmt.Errorf("scaler fitted on %d features, metadata declares %d", len(s.Mean), featureCount)
	}
	return nil
}

// LinearModel is a frozen linear regressor (e.g. the exported RidgeCV
// coefficients).
type LinearModel struct {
	ModelName string    `json:"name"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (m *LinearModel) Name() string {
	return m.ModelName
}

func (m *LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("model %s expects %d inputs, got %d", m.ModelName, len(m.Coef), len(x))
	}
	out := m.Intercept
	for i, v := range x {
		out += m.Coef[i] * v
	}
	return out, nil
}

func (m *LinearModel) Validate(inputCount int) error {
	if m.ModelName == "" {
		return errors.New("linear model has no name")
	}
	if len(m.Coef) != inputCount {
		return fmt.Errorf("model %s has %d coefficients, expected %d", m.ModelName, len(m.Coef), inputCount)
	}
	return nil
}

// TreeNode is one node of a regression tree in flattened form. Index 0 is the
// root; Left and Right index into the same slice.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// TreeEnsembleModel is a frozen gradient-boosted forest (e.g. an exported
// XGBoost dump). Prediction is the base score plus the sum of each tree's
// leaf value for the input.
type TreeEnsembleModel struct {
	ModelName string       `json:"name"`
	BaseScore float64      `json:"base_score"`
	Trees     [][]TreeNode `json:"trees"`
}

func (m *TreeEnsembleModel) Name() string {
	return m.ModelName
}

func (m *TreeEnsembleModel) Predict(x []float64) (float64, error) {
	sum := m.BaseScore
	for i, tree := range m.Trees {
		v, err := evalTree(tree, x)
		if err != nil {
			return 0, fmt.Errorf("model %s tree %d: %w", m.ModelName, i, err)
		}
		sum += v
	}
	return sum, nil
}

func (m *TreeEnsembleModel) Validate(inputCount int) error {
	if m.ModelName == "" {
		return errors.New("tree ensemble has no name")
	}
	for ti, tree := range m.Trees {
		if len(tree) == 0 {
			return fmt.Errorf("model %s tree %d is empty", m.ModelName, ti)
		}
		for ni, node := range tree {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= inputCount {
				return fmt.Errorf("model %s tree %d node %d splits on feature %d, only %d inputs",
					m.ModelName, ti, ni, node.Feature, inputCount)
			}
			if node.Left < 0 || node.Left >= len(tree) || node.Right < 0 || node.Right >= len(tree) {
				return fmt.Errorf("model %s tree %d node %d has child out of range", m.ModelName, ti, ni)
			}
		}
	}
	return nil
}

func evalTree(nodes []TreeNode, x []float64) (float64, error) {
	if len(nodes) == 0 {
		return 0, errors.New("empty tree")
	}
	i := 0
	// A well-formed tree reaches a leaf in at most len(nodes) steps.
	for steps := 0; steps < len(nodes); steps++ {
		n := nodes[i]
		if n.Leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0, fmt.Errorf("split feature %d out of range for %d inputs", n.Feature, len(x))
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
		if i < 0 || i >= len(nodes) {
			return 0, fmt.Errorf("child index %d out of range", i)
		}
	}
	return 0, errors.New("no leaf reached, tree is malformed")
}

// modelSpec is the on-disk polymorphic encoding of a single regressor.
type modelSpec struct {
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	Coef      []float64    `json:"coef,omitempty"`
	Intercept float64      `json:"intercept,omitempty"`
	BaseScore float64      `json:"base_score,omitempty"`
	Trees     [][]TreeNode `json:"trees,omitempty"`
}

func (s modelSpec) build() (Model, error) {
	switch s.Type {
	case "linear":
		return &LinearModel{ModelName: s.Name, Coef: s.Coef, Intercept: s.Intercept}, nil
	case "tree_ensemble":
		return &TreeEnsembleModel{ModelName: s.Name, BaseScore: s.BaseScore, Trees: s.Trees}, nil
	default:
		return nil, fmt.Errorf("unknown model type %q", s.Type)
	}
}

// bundleFile is the JSON layout of the persisted ensemble bundle: the scaler,
// the two base learners, and the meta-learner that stacks their outputs.
type bundleFile struct {
	Scaler     *Scaler     `json:"scaler"`
	BaseModels []modelSpec `json:"base_models"`
	MetaModel  *modelSpec  `json:"meta_model"`
}

func parseBundle(data []byte) (*Scaler, []Model, Model, error) {
	var file bundleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, nil, fmt.Errorf("decode model bundle: %w", err)
	}

	if file.Scaler == nil {
		return nil, nil, nil, errors.New("model bundle has no scaler")
	}
	if len(file.BaseModels) != 2 {
		return nil, nil, nil, fmt.Errorf("model bundle has %d base models, expected 2", len(file.BaseModels))
	}
	if file.MetaModel == nil {
		return nil, nil, nil, errors.New("model bundle has no meta model")
	}

	base := make([]Model, len(file.BaseModels))
	for i, spec := range file.BaseModels {
		m, err := spec.build()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("base model %d: %w", i, err)
		}
		base[i] = m
	}

	meta, err := file.MetaModel.build()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("meta model: %w", err)
	}

	return file.Scaler, base, meta, nil
}
