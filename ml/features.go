package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	FeatureMissDistanceKm = "miss_distance_km"
	FeatureVelocityKph    = "velocity_kph"
	FeatureDiameterMinM   = "diameter_min_m"
	FeatureDiameterMaxM   = "diameter_max_m"
)

// FeatureVector is the model input. Its order matches the column order the
// model was trained with and must not change.
type FeatureVector [4]float64

// FeatureNames returns the feature keys in vector order.
func FeatureNames() []string {
	return []string{
		FeatureMissDistanceKm,
		FeatureVelocityKph,
		FeatureDiameterMinM,
		FeatureDiameterMaxM,
	}
}

// Slice returns the vector as a single model row.
func (v FeatureVector) Slice() []float64 {
	return v[:]
}

// ValidationKind classifies why a raw request could not become a vector.
type ValidationKind string

const (
	KindMissingKey ValidationKind = "missing_key"
	KindBadType    ValidationKind = "bad_type"
	KindOutOfRange ValidationKind = "out_of_range"
)

// ValidationError reports the first invalid feature of a request.
type ValidationError struct {
	Kind  ValidationKind
	Key   string
	Value any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingKey:
		return fmt.Sprintf("missing required field %q", e.Key)
	case KindBadType:
		return fmt.Sprintf("field %q must be numeric, got %T", e.Key, e.Value)
	default:
		return fmt.Sprintf("field %q must be a finite non-negative number, got %v", e.Key, e.Value)
	}
}

// BuildFeatureVector validates a loosely typed request and assembles the
// fixed-order vector. Keys are checked in vector order, so the first
// problem reported is deterministic.
func BuildFeatureVector(raw map[string]any) (FeatureVector, error) {
	var v FeatureVector
	for i, key := range FeatureNames() {
		value, ok := raw[key]
		if !ok {
			return FeatureVector{}, &ValidationError{Kind: KindMissingKey, Key: key}
		}
		f, ok := toFloat(value)
		if !ok {
			return FeatureVector{}, &ValidationError{Kind: KindBadType, Key: key, Value: value}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return FeatureVector{}, &ValidationError{Kind: KindOutOfRange, Key: key, Value: value}
		}
		v[i] = f
	}
	return v, nil
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		return parseNumber(string(n))
	case string:
		return parseNumber(strings.TrimSpace(n))
	default:
		return 0, false
	}
}

// parseNumber reports overflow as ±Inf so the caller classifies it as out of
// range rather than non-numeric.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
