package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neowatch/analysis"
	"neowatch/asteroid"
)

func newVisualization(records []asteroid.Record) *VisualizationService {
	return NewVisualizationService(asteroid.NewDataset(records), analysis.DefaultBins(), analysis.GranularityMonth)
}

func TestSizeChart(t *testing.T) {
	chart := newVisualization(asteroid.SampleRecords()).SizeChart()
	assert.Equal(t, SizeChartTitle, chart.Title)
	assert.Equal(t, Axes{X: "Asteroid Size Category", Y: "Count"}, chart.Axes)
	assert.Equal(t, []analysis.BinCount{
		{Label: "Tiny", Count: 2},
		{Label: "Small", Count: 0},
		{Label: "Medium", Count: 1},
		{Label: "Large", Count: 1},
		{Label: "Huge", Count: 0},
	}, chart.Bins)
}

func TestTimeSeriesChart(t *testing.T) {
	chart := newVisualization(asteroid.SampleRecords()).TimeSeriesChart()
	assert.Equal(t, TimeSeriesChartTitle, chart.Title)
	assert.Equal(t, []string{"2025-03"}, chart.Buckets)
	assert.Equal(t, [][]int{{2, 2}}, chart.Counts)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, asteroid.Hazardous, chart.Series[0].Label)
	assert.Equal(t, []int{2}, chart.Series[0].Counts)
}

func TestTrajectoryChart(t *testing.T) {
	chart := newVisualization(asteroid.SampleRecords()).TrajectoryChart()
	assert.Equal(t, TrajectoryChartTitle, chart.Title)
	require.Len(t, chart.Points, 4)
	assert.Equal(t, analysis.TrajectoryPoint{MissDistanceKm: 800000, VelocityKph: 88000, Label: asteroid.NotHazardous}, chart.Points[3])
}

func TestChartsOnEmptyDataset(t *testing.T) {
	svc := newVisualization(nil)
	assert.Len(t, svc.SizeChart().Bins, 5)
	assert.Empty(t, svc.TimeSeriesChart().Buckets)
	assert.Empty(t, svc.TrajectoryChart().Points)
	assert.Equal(t, 0, svc.DatasetSize())
}

func TestChartsConcurrentReaders(t *testing.T) {
	svc := newVisualization(asteroid.SampleRecords())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, svc.SizeChart().Bins, 5)
			assert.Len(t, svc.TimeSeriesChart().Buckets, 1)
			assert.Len(t, svc.TrajectoryChart().Points, 4)
		}()
	}
	wg.Wait()
}
