package metrics

import (
	"sync/atomic"
	"time"
)

// Counters tracks request outcomes since process start. All methods are safe
// for concurrent use and tolerate a nil receiver so tests can skip wiring.
type Counters struct {
	predictions        atomic.Int64
	validationFailures atomic.Int64
	inferenceFailures  atomic.Int64
	started            time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Predictions        int64
	ValidationFailures int64
	InferenceFailures  int64
	Uptime             time.Duration
}

// New creates zeroed counters anchored at the current time.
func New() *Counters {
	return &Counters{started: time.Now()}
}

// RecordPrediction counts one served prediction.
func (c *Counters) RecordPrediction() {
	if c == nil {
		return
	}
	c.predictions.Add(1)
}

// RecordValidationFailure counts one rejected request.
func (c *Counters) RecordValidationFailure() {
	if c == nil {
		return
	}
	c.validationFailures.Add(1)
}

// RecordInferenceFailure counts one failed model invocation.
func (c *Counters) RecordInferenceFailure() {
	if c == nil {
		return
	}
	c.inferenceFailures.Add(1)
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		Predictions:        c.predictions.Load(),
		ValidationFailures: c.validationFailures.Load(),
		InferenceFailures:  c.inferenceFailures.Load(),
		Uptime:             time.Since(c.started),
	}
}
