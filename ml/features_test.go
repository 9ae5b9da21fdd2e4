package ml

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func validRequest() map[string]any {
	return map[string]any{
		"miss_distance_km": 1000000.0,
		"velocity_kph":     40000.0,
		"diameter_min_m":   400.0,
		"diameter_max_m":   600.0,
	}
}

func TestBuildFeatureVectorOrder(t *testing.T) {
	v, err := BuildFeatureVector(validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := FeatureVector{1000000, 40000, 400, 600}
	if v != want {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestBuildFeatureVectorCoercion(t *testing.T) {
	raw := map[string]any{
		"miss_distance_km": json.Number("800000"),
		"velocity_kph":     " 88000 ",
		"diameter_min_m":   18,
		"diameter_max_m":   int64(45),
		"extra":            "ignored",
	}
	v, err := BuildFeatureVector(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != (FeatureVector{800000, 88000, 18, 45}) {
		t.Fatalf("unexpected vector: %v", v)
	}
}

func TestBuildFeatureVectorErrors(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  any
		drop bool
		kind ValidationKind
	}{
		{name: "missing", key: "velocity_kph", drop: true, kind: KindMissingKey},
		{name: "bool", key: "diameter_min_m", val: true, kind: KindBadType},
		{name: "nil", key: "diameter_max_m", val: nil, kind: KindBadType},
		{name: "word", key: "miss_distance_km", val: "far", kind: KindBadType},
		{name: "object", key: "miss_distance_km", val: map[string]any{}, kind: KindBadType},
		{name: "negative", key: "velocity_kph", val: -5.0, kind: KindOutOfRange},
		{name: "nan", key: "velocity_kph", val: math.NaN(), kind: KindOutOfRange},
		{name: "inf string", key: "diameter_max_m", val: "Inf", kind: KindOutOfRange},
		{name: "overflowing number", key: "miss_distance_km", val: json.Number("1e400"), kind: KindOutOfRange},
		{name: "overflowing string", key: "velocity_kph", val: "-1e400", kind: KindOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRequest()
			if tc.drop {
				delete(raw, tc.key)
			} else {
				raw[tc.key] = tc.val
			}
			_, err := BuildFeatureVector(raw)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Kind != tc.kind || verr.Key != tc.key {
				t.Fatalf("expected %s on %s, got %s on %s", tc.kind, tc.key, verr.Kind, verr.Key)
			}
			if verr.Error() == "" {
				t.Fatal("expected message")
			}
		})
	}
}

func TestBuildFeatureVectorReportsFirstMissingKey(t *testing.T) {
	_, err := BuildFeatureVector(map[string]any{})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Key != FeatureMissDistanceKm {
		t.Fatalf("expected missing %s, got %v", FeatureMissDistanceKm, err)
	}
}
