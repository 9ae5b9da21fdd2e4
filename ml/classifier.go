package ml

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"neowatch/asteroid"
)

// ModelInferenceError wraps any failure of the underlying model call.
type ModelInferenceError struct {
	Err error
}

func (e *ModelInferenceError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *ModelInferenceError) Unwrap() error {
	return e.Err
}

// ClassifierStats is a snapshot of inference counters.
type ClassifierStats struct {
	Predictions         int64 `json:"predictions"`
	Failures            int64 `json:"inference_failures"`
	ConsecutiveFailures int64 `json:"consecutive_failures"`
	CacheHits           int64 `json:"cache_hits"`
}

// Classifier turns feature vectors into hazard labels using a single model
// loaded at startup. It is safe for concurrent use.
type Classifier struct {
	model  Model
	cache  *lru.Cache[FeatureVector, asteroid.Label]
	logger *zap.Logger

	predictions atomic.Int64
	failures    atomic.Int64
	consecutive atomic.Int64
	cacheHits   atomic.Int64
}

type ClassifierOption func(*Classifier)

// WithCache memoises labels for up to size distinct vectors. The model is
// immutable, so a cached label is always the label the model would return.
func WithCache(size int) ClassifierOption {
	return func(c *Classifier) {
		if size <= 0 {
			return
		}
		if cache, err := lru.New[FeatureVector, asteroid.Label](size); err == nil {
			c.cache = cache
		}
	}
}

func WithLogger(logger *zap.Logger) ClassifierOption {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClassifier(model Model, opts ...ClassifierOption) *Classifier {
	c := &Classifier{model: model, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns Hazardous when the model outputs a non-zero class and
// NotHazardous otherwise. Model failures, including panics, are returned as
// *ModelInferenceError and never retried.
func (c *Classifier) Classify(v FeatureVector) (asteroid.Label, error) {
	if c.cache != nil {
		if label, ok := c.cache.Get(v); ok {
			c.cacheHits.Add(1)
			c.predictions.Add(1)
			return label, nil
		}
	}

	output, err := c.predict(v)
	if err != nil {
		c.failures.Add(1)
		n := c.consecutive.Add(1)
		c.logger.Warn("model inference failed",
			zap.Float64s("features", v.Slice()),
			zap.Int64("consecutive_failures", n),
			zap.Error(err))
		return "", &ModelInferenceError{Err: err}
	}
	c.consecutive.Store(0)
	c.predictions.Add(1)

	label := asteroid.LabelFromOutput(output)
	if c.cache != nil {
		c.cache.Add(v, label)
	}
	return label, nil
}

func (c *Classifier) predict(v FeatureVector) (output int, err error) {
	if c.model == nil {
		return 0, ErrModelNotTrained
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	output, _, err = c.model.Predict(v.Slice())
	return output, err
}

func (c *Classifier) Stats() ClassifierStats {
	return ClassifierStats{
		Predictions:         c.predictions.Load(),
		Failures:            c.failures.Load(),
		ConsecutiveFailures: c.consecutive.Load(),
		CacheHits:           c.cacheHits.Load(),
	}
}

// Healthy is false once threshold inference calls in a row have failed,
// which usually means the model and feature order do not match.
func (c *Classifier) Healthy(threshold int64) bool {
	if threshold <= 0 {
		return true
	}
	return c.consecutive.Load() < threshold
}
