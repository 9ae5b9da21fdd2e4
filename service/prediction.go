// Package service orchestrates the prediction and visualization flows that
// the HTTP layer exposes.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"neowatch/asteroid"
	"neowatch/ml"
	"neowatch/monitoring"
)

// MaxPredictBodyBytes bounds the request body read by HandlePredict.
const MaxPredictBodyBytes = 1 << 20

// ErrorKind is the internal classification of a failed prediction. It is
// logged and counted but not exposed to callers.
type ErrorKind string

const (
	ErrorKindDecode     ErrorKind = "decode"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindInference  ErrorKind = "inference"
)

// PredictResponse carries exactly one of Prediction or Error.
type PredictResponse struct {
	Prediction string `json:"prediction,omitempty"`
	Error      string `json:"error,omitempty"`
}

// LabelClassifier is the capability the prediction flow needs from the model
// adapter.
type LabelClassifier interface {
	Classify(ml.FeatureVector) (asteroid.Label, error)
}

type PredictionService struct {
	classifier LabelClassifier
	metrics    *monitoring.MetricsCollector
	logger     *zap.Logger
}

func NewPredictionService(classifier LabelClassifier, metrics *monitoring.MetricsCollector, logger *zap.Logger) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{classifier: classifier, metrics: metrics, logger: logger}
}

// Predict builds the feature vector from raw and classifies it.
func (s *PredictionService) Predict(raw map[string]any) (asteroid.Label, error) {
	vector, err := ml.BuildFeatureVector(raw)
	if err != nil {
		return "", err
	}
	return s.classifier.Classify(vector)
}

// HandlePredict decodes a JSON object from body and returns either the
// label or an error message. It never panics on caller input.
func (s *PredictionService) HandlePredict(body io.Reader) PredictResponse {
	raw, err := decodeObject(io.LimitReader(body, MaxPredictBodyBytes))
	if err != nil {
		return s.fail(ErrorKindDecode, err)
	}
	label, err := s.Predict(raw)
	if err != nil {
		return s.fail(classify(err), err)
	}
	if s.metrics != nil {
		s.metrics.IncrCounter(monitoring.MetricPredictions, 1, map[string]string{"label": label.String()})
	}
	return PredictResponse{Prediction: label.String()}
}

func (s *PredictionService) fail(kind ErrorKind, err error) PredictResponse {
	s.logger.Info("prediction rejected", zap.String("kind", string(kind)), zap.Error(err))
	if s.metrics != nil {
		s.metrics.IncrCounter(monitoring.MetricPredictionErrors, 1, map[string]string{"kind": string(kind)})
	}
	return PredictResponse{Error: err.Error()}
}

func classify(err error) ErrorKind {
	var verr *ml.ValidationError
	if errors.As(err, &verr) {
		return ErrorKindValidation
	}
	return ErrorKindInference
}

func decodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is empty")
		}
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if raw == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("request body must contain a single JSON object")
	}
	return raw, nil
}
