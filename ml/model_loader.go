package ml

import "fmt"

const (
	ModelTypeDecisionTree = "decision_tree"
	ModelTypeONNX         = "onnx"
)

// LoadOptions carries loader settings that only some model types need.
type LoadOptions struct {
	// ONNXLibraryPath points at libonnxruntime; empty means alongside the model.
	ONNXLibraryPath string
}

// LoadModel loads the artifact at path. Every failure is a *StartupError.
func LoadModel(modelType, path string, opts LoadOptions) (Model, error) {
	switch modelType {
	case ModelTypeDecisionTree:
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, &StartupError{Component: "decision tree", Path: path, Err: err}
		}
		return model, nil
	case ModelTypeONNX:
		model, err := LoadONNXModel(path, opts.ONNXLibraryPath)
		if err != nil {
			return nil, &StartupError{Component: "onnx model", Path: path, Err: err}
		}
		return model, nil
	default:
		return nil, &StartupError{Component: "model", Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedModel, modelType)}
	}
}
