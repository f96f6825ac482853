package forecast

import "fmt"

// ValidationError reports a request field the client can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s %s", e.Field, e.Message)
}

// InferenceError reports a failure inside one stage of the frozen pipeline.
// Inputs and models are deterministic, so a retry would fail identically;
// callers must surface it, not retry.
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed at stage %s: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
