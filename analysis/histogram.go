package analysis

import "neowatch/asteroid"

// BinCount is one histogram row.
type BinCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SizeHistogram counts records per size bin by minimum diameter. Rows follow
// bin order and every bin appears, including empty ones. Records outside all
// bins are not counted.
func SizeHistogram(ds *asteroid.Dataset, bins Bins) []BinCount {
	counts := make([]int, bins.Len())
	for _, r := range ds.All() {
		if i := bins.Assign(r.DiameterMinM); i >= 0 {
			counts[i]++
		}
	}
	rows := make([]BinCount, bins.Len())
	for i, label := range bins.labels {
		rows[i] = BinCount{Label: label, Count: counts[i]}
	}
	return rows
}
