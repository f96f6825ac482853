package forecast

import "fmt"

// Regressor is a frozen estimator scoring a single input vector.
type Regressor interface {
	Name() string
	Predict(x []float64) (float64, error)
}

// Transformer rescales a feature vector using statistics fixed at training
// time.
type Transformer interface {
	Transform(x []float64) ([]float64, error)
}

// Ensemble is the frozen two-stage stacking pipeline: standardize the
// features, score them with both base learners, then combine the base
// outputs with the meta-learner. It holds no per-request state and is safe
// for concurrent use.
type Ensemble struct {
	scaler Transformer
	base   []Regressor
	meta   Regressor
}

// NewEnsemble assembles the pipeline. Exactly two base learners are expected.
func NewEnsemble(scaler Transformer, base []Regressor, meta Regressor) (*Ensemble, error) {
	if scaler == nil {
		return nil, fmt.Errorf("ensemble requires a scaler")
	}
	if len(base) != 2 {
		return nil, fmt.Errorf("ensemble requires exactly 2 base learners, got %d", len(base))
	}
	if meta == nil {
		return nil, fmt.Errorf("ensemble requires a meta-learner")
	}
	return &Ensemble{scaler: scaler, base: base, meta: meta}, nil
}

// Predict runs the pipeline on one feature vector. Failures carry the name
// of the failing stage and are never retried.
func (e *Ensemble) Predict(x FeatureVector) (float64, error) {
	scaled, err := e.scaler.Transform(x)
	if err != nil {
		return 0, &InferenceError{Stage: "scaler", Err: err}
	}

	metaInput := make([]float64, len(e.base))
	for i, b := range e.base {
		v, err := b.Predict(scaled)
		if err != nil {
			return 0, &InferenceError{Stage: b.Name(), Err: err}
		}
		metaInput[i] = v
	}

	out, err := e.meta.Predict(metaInput)
	if err != nil {
		return 0, &InferenceError{Stage: "meta:" + e.meta.Name(), Err: err}
	}
	return out, nil
}

// BaseNames returns the base learner names in pipeline order.
func (e *Ensemble) BaseNames() []string {
	names := make([]string, len(e.base))
	for i, b := range e.base {
		names[i] = b.Name()
	}
	return names
}

// MetaName returns the meta-learner's name.
func (e *Ensemble) MetaName() string {
	return e.meta.Name()
}
