package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neowatch/monitoring"
	"neowatch/service"
)

const validBody = `{"miss_distance_km": 1000000, "velocity_kph": 40000, "diameter_min_m": 400, "diameter_max_m": 600}`

func postPredict(t *testing.T, mux *http.ServeMux, body string) service.PredictResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload service.PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return payload
}

func TestHandlePredict(t *testing.T) {
	mux, _, mc := setup(t, &fakeModel{label: 1})

	payload := postPredict(t, mux, validBody)
	if payload.Prediction != "Hazardous" || payload.Error != "" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if got := mc.Value(monitoring.MetricPredictions, map[string]string{"label": "Hazardous"}); got != 1 {
		t.Errorf("expected 1 prediction counted, got %v", got)
	}
}

func TestHandlePredictNotHazardous(t *testing.T) {
	mux, _, _ := setup(t, &fakeModel{label: 0})

	payload := postPredict(t, mux, validBody)
	if payload.Prediction != "Not Hazardous" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandlePredictErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		model *fakeModel
		want  string
	}{
		{"missing key", `{"miss_distance_km": 1, "velocity_kph": 2, "diameter_min_m": 3}`, &fakeModel{}, "diameter_max_m"},
		{"bad type", `{"miss_distance_km": "far", "velocity_kph": 2, "diameter_min_m": 3, "diameter_max_m": 4}`, &fakeModel{}, "miss_distance_km"},
		{"not json", `miss=1`, &fakeModel{}, "JSON object"},
		{"inference", validBody, &fakeModel{err: errors.New("boom")}, "boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux, _, _ := setup(t, tc.model)
			payload := postPredict(t, mux, tc.body)
			if payload.Prediction != "" {
				t.Fatalf("expected no prediction, got %q", payload.Prediction)
			}
			if !strings.Contains(payload.Error, tc.want) {
				t.Fatalf("error %q should mention %q", payload.Error, tc.want)
			}
		})
	}
}

func TestHandlePredictRejectsGet(t *testing.T) {
	mux, _, _ := setup(t, &fakeModel{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/predict", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandlePredictWithoutModel(t *testing.T) {
	mux, _, _ := setup(t, &fakeModel{})
	SetPredictionService(nil)

	payload := postPredict(t, mux, validBody)
	if payload.Error == "" {
		t.Fatal("expected an error when no model is loaded")
	}
}
