package ml

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedModel = errors.New("unsupported model type")
	ErrModelNotTrained  = errors.New("model not trained")
)

// Model is an opaque pre-trained classifier. Predict receives one row in
// FeatureNames order and returns the raw class, a confidence in [0,1] when
// the model reports one, and any inference error.
type Model interface {
	Predict(features []float64) (int, float64, error)
}

// StartupError means the model artifact could not be loaded; the process
// must not start serving.
type StartupError struct {
	Component string
	Path      string
	Err       error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup: load %s from %s: %v", e.Component, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}
