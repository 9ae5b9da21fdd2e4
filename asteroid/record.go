package asteroid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Record is one observed close approach.
type Record struct {
	MissDistanceKm    float64   `json:"miss_distance_km"`
	DiameterMinM      float64   `json:"diameter_min_m"`
	DiameterMaxM      float64   `json:"diameter_max_m"`
	VelocityKph       float64   `json:"velocity_kph"`
	Prediction        Label     `json:"prediction"`
	CloseApproachDate time.Time `json:"close_approach_date"`
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"miss_distance_km", r.MissDistanceKm},
		{"diameter_min_m", r.DiameterMinM},
		{"diameter_max_m", r.DiameterMaxM},
		{"velocity_kph", r.VelocityKph},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s is not finite", f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%s %.2f is negative", f.name, f.value)
		}
	}
	if r.DiameterMinM > r.DiameterMaxM {
		return fmt.Errorf("diameter_min_m %.2f exceeds diameter_max_m %.2f", r.DiameterMinM, r.DiameterMaxM)
	}
	if !r.Prediction.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, string(r.Prediction))
	}
	if r.CloseApproachDate.IsZero() {
		return errors.New("close_approach_date is missing")
	}
	return nil
}
