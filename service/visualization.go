package service

import (
	"sync"

	"neowatch/analysis"
	"neowatch/asteroid"
)

// Axis titles and chart titles shown by the chart pages.
const (
	SizeChartTitle       = "Asteroid Frequency by Size Category"
	TimeSeriesChartTitle = "Hazardous vs Non-Hazardous Asteroids Over Time"
	TrajectoryChartTitle = "Asteroid Trajectory (Miss Distance vs Velocity)"
)

type Axes struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type HistogramChart struct {
	Title string              `json:"title"`
	Axes  Axes                `json:"axes"`
	Bins  []analysis.BinCount `json:"bins"`
}

type TimeSeriesChart struct {
	Title   string                 `json:"title"`
	Axes    Axes                   `json:"axes"`
	Buckets []string               `json:"buckets"`
	Labels  []asteroid.Label       `json:"labels"`
	Counts  [][]int                `json:"counts"`
	Series  []analysis.LabelSeries `json:"series"`
}

type ScatterChart struct {
	Title  string                     `json:"title"`
	Axes   Axes                       `json:"axes"`
	Points []analysis.TrajectoryPoint `json:"points"`
}

// VisualizationService turns the fixed dataset into chart-ready data. The
// dataset never changes after startup, so each chart is computed once.
type VisualizationService struct {
	dataset     *asteroid.Dataset
	bins        analysis.Bins
	granularity analysis.Granularity

	sizeOnce  sync.Once
	size      HistogramChart
	timeOnce  sync.Once
	timeChart TimeSeriesChart
	trajOnce  sync.Once
	traj      ScatterChart
}

func NewVisualizationService(ds *asteroid.Dataset, bins analysis.Bins, granularity analysis.Granularity) *VisualizationService {
	return &VisualizationService{dataset: ds, bins: bins, granularity: granularity}
}

func (s *VisualizationService) DatasetSize() int {
	return s.dataset.Len()
}

func (s *VisualizationService) SizeChart() HistogramChart {
	s.sizeOnce.Do(func() {
		s.size = HistogramChart{
			Title: SizeChartTitle,
			Axes:  Axes{X: "Asteroid Size Category", Y: "Count"},
			Bins:  analysis.SizeHistogram(s.dataset, s.bins),
		}
	})
	return s.size
}

func (s *VisualizationService) TimeSeriesChart() TimeSeriesChart {
	s.timeOnce.Do(func() {
		ts := analysis.HazardTimeSeries(s.dataset, s.granularity)
		s.timeChart = TimeSeriesChart{
			Title:   TimeSeriesChartTitle,
			Axes:    Axes{X: "Date", Y: "Asteroid Count"},
			Buckets: ts.Buckets,
			Labels:  ts.Labels,
			Counts:  ts.Counts,
			Series:  ts.Series(),
		}
	})
	return s.timeChart
}

func (s *VisualizationService) TrajectoryChart() ScatterChart {
	s.trajOnce.Do(func() {
		s.traj = ScatterChart{
			Title:  TrajectoryChartTitle,
			Axes:   Axes{X: "Miss Distance (km)", Y: "Velocity (kph)"},
			Points: analysis.CollectTrajectory(s.dataset),
		}
	})
	return s.traj
}
