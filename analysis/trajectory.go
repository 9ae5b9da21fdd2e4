package analysis

import (
	"iter"

	"neowatch/asteroid"
)

// TrajectoryPoint is one scatter point.
type TrajectoryPoint struct {
	MissDistanceKm float64        `json:"miss_distance_km"`
	VelocityKph    float64        `json:"velocity_kph"`
	Label          asteroid.Label `json:"prediction"`
}

// Trajectory yields one point per record in dataset order. The sequence is
// lazy and may be ranged over any number of times.
func Trajectory(ds *asteroid.Dataset) iter.Seq[TrajectoryPoint] {
	return func(yield func(TrajectoryPoint) bool) {
		for _, r := range ds.All() {
			p := TrajectoryPoint{
				MissDistanceKm: r.MissDistanceKm,
				VelocityKph:    r.VelocityKph,
				Label:          r.Prediction,
			}
			if !yield(p) {
				return
			}
		}
	}
}

// CollectTrajectory materialises the trajectory sequence.
func CollectTrajectory(ds *asteroid.Dataset) []TrajectoryPoint {
	points := make([]TrajectoryPoint, 0, ds.Len())
	for p := range Trajectory(ds) {
		points = append(points, p)
	}
	return points
}
