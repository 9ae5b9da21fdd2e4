package analysis

import (
	"fmt"
	"sort"
	"time"

	"neowatch/asteroid"
)

// Granularity selects how close-approach dates are coarsened.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity validates a configured granularity; empty means month.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "", GranularityMonth:
		return GranularityMonth, nil
	case GranularityYear:
		return GranularityYear, nil
	default:
		return "", fmt.Errorf("unknown time bucket %q", s)
	}
}

// BucketKey returns the sortable bucket key for t ("2025-03" or "2025").
func (g Granularity) BucketKey(t time.Time) string {
	t = t.UTC()
	if g == GranularityYear {
		return t.Format("2006")
	}
	return t.Format("2006-01")
}

// TimeSeries is a bucket × label count matrix. Counts[i][j] is the number of
// records in Buckets[i] labelled Labels[j]; combinations absent from the
// data are explicit zeros.
type TimeSeries struct {
	Buckets []string         `json:"buckets"`
	Labels  []asteroid.Label `json:"labels"`
	Counts  [][]int          `json:"counts"`
}

// LabelSeries is one line of a time-series chart.
type LabelSeries struct {
	Label  asteroid.Label `json:"label"`
	Counts []int          `json:"counts"`
}

type bucketLabel struct {
	bucket string
	label  asteroid.Label
}

// HazardTimeSeries counts records per (time bucket, label). Buckets are
// ascending; labels are those present in the dataset in canonical order.
func HazardTimeSeries(ds *asteroid.Dataset, g Granularity) TimeSeries {
	counts := make(map[bucketLabel]int)
	buckets := make(map[string]struct{})
	present := make(map[asteroid.Label]struct{})
	for _, r := range ds.All() {
		key := bucketLabel{bucket: g.BucketKey(r.CloseApproachDate), label: r.Prediction}
		counts[key]++
		buckets[key.bucket] = struct{}{}
		present[r.Prediction] = struct{}{}
	}

	ts := TimeSeries{
		Buckets: make([]string, 0, len(buckets)),
		Labels:  make([]asteroid.Label, 0, len(present)),
	}
	for b := range buckets {
		ts.Buckets = append(ts.Buckets, b)
	}
	sort.Strings(ts.Buckets)
	for _, l := range asteroid.Labels() {
		if _, ok := present[l]; ok {
			ts.Labels = append(ts.Labels, l)
		}
	}

	ts.Counts = make([][]int, len(ts.Buckets))
	for i, b := range ts.Buckets {
		row := make([]int, len(ts.Labels))
		for j, l := range ts.Labels {
			row[j] = counts[bucketLabel{bucket: b, label: l}]
		}
		ts.Counts[i] = row
	}
	return ts
}

// Series pivots the matrix into one count series per label.
func (ts TimeSeries) Series() []LabelSeries {
	out := make([]LabelSeries, len(ts.Labels))
	for j, l := range ts.Labels {
		counts := make([]int, len(ts.Buckets))
		for i := range ts.Buckets {
			counts[i] = ts.Counts[i][j]
		}
		out[j] = LabelSeries{Label: l, Counts: counts}
	}
	return out
}
