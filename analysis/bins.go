// Package analysis aggregates the asteroid dataset into chart-ready rows.
// Every function here is pure and safe to call concurrently on a shared
// dataset.
package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidBins is returned for edge/label sets that do not form a partition.
var ErrInvalidBins = errors.New("invalid size bins")

var (
	DefaultBinEdges  = []float64{0, 50, 150, 300, 500, 1000}
	DefaultBinLabels = []string{"Tiny", "Small", "Medium", "Large", "Huge"}

	// Alternative partition used by the service's second chart variant.
	AlternateBinEdges  = []float64{0, 100, 200, 300, 400, 500}
	AlternateBinLabels = []string{"Small", "Medium", "Large", "Very Large", "Huge"}
)

// Bins is an ordered partition of the diameter range. Bin i covers
// (edges[i], edges[i+1]]; the first bin also includes its lower edge.
type Bins struct {
	edges  []float64
	labels []string
}

func NewBins(edges []float64, labels []string) (Bins, error) {
	if len(labels) == 0 {
		return Bins{}, fmt.Errorf("%w: no labels", ErrInvalidBins)
	}
	if len(edges) != len(labels)+1 {
		return Bins{}, fmt.Errorf("%w: %d edges for %d labels", ErrInvalidBins, len(edges), len(labels))
	}
	if edges[0] < 0 {
		return Bins{}, fmt.Errorf("%w: negative lower edge %v", ErrInvalidBins, edges[0])
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return Bins{}, fmt.Errorf("%w: edges not strictly ascending at %d", ErrInvalidBins, i)
		}
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			return Bins{}, fmt.Errorf("%w: empty label", ErrInvalidBins)
		}
		if _, dup := seen[l]; dup {
			return Bins{}, fmt.Errorf("%w: duplicate label %q", ErrInvalidBins, l)
		}
		seen[l] = struct{}{}
	}
	return Bins{
		edges:  append([]float64(nil), edges...),
		labels: append([]string(nil), labels...),
	}, nil
}

// DefaultBins returns the Tiny..Huge partition.
func DefaultBins() Bins {
	b, _ := NewBins(DefaultBinEdges, DefaultBinLabels)
	return b
}

func (b Bins) Len() int {
	return len(b.labels)
}

func (b Bins) Labels() []string {
	return append([]string(nil), b.labels...)
}

// Assign returns the index of the bin holding value, or -1 when value lies
// outside every bin.
func (b Bins) Assign(value float64) int {
	if len(b.labels) == 0 {
		return -1
	}
	if value == b.edges[0] {
		return 0
	}
	for i := range b.labels {
		if value > b.edges[i] && value <= b.edges[i+1] {
			return i
		}
	}
	return -1
}
