package ml

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv guards the process-wide ONNX Runtime initialisation.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXModel runs a classifier exported to ONNX (for example with skl2onnx).
// The model must take one float32 input of shape [N, 4] and produce an int64
// label tensor; extra outputs such as probabilities are ignored.
type ONNXModel struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
}

// LoadONNXModel opens an inference session. libPath defaults to
// libonnxruntime.so in the model's directory.
func LoadONNXModel(modelPath, libPath string) (*ONNXModel, error) {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input, got %d", len(inputs))
	}
	if inputs[0].DataType != ort.TensorElementDataTypeFloat {
		return nil, fmt.Errorf("onnx: input %q must be float32", inputs[0].Name)
	}
	outputName := ""
	for _, out := range outputs {
		if out.DataType == ort.TensorElementDataTypeInt64 {
			outputName = out.Name
			break
		}
	}
	if outputName == "" {
		return nil, errors.New("onnx: model has no int64 label output")
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{inputs[0].Name}, []string{outputName}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	return &ONNXModel{session: session, inputName: inputs[0].Name, outputName: outputName}, nil
}

// Predict runs one row. ONNX label outputs carry no confidence, so 0 is
// returned for it.
func (m *ONNXModel) Predict(features []float64) (int, float64, error) {
	row := make([]float32, len(features))
	for i, f := range features {
		row[i] = float32(f)
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(row))), row)
	if err != nil {
		return 0, 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return 0, 0, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := m.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return 0, 0, fmt.Errorf("onnx: inference failed: %w", err)
	}
	data := output.GetData()
	if len(data) == 0 {
		return 0, 0, errors.New("onnx: empty label output")
	}
	return int(data[0]), 0, nil
}

// Close releases the session.
func (m *ONNXModel) Close() error {
	return m.session.Destroy()
}
