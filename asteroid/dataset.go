package asteroid

import (
	"iter"
	"time"
)

// Dataset is an ordered, read-only collection of records. It is built once
// and may be shared between goroutines without locking.
type Dataset struct {
	records []Record
}

// NewDataset copies records into a new dataset.
func NewDataset(records []Record) *Dataset {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Dataset{records: owned}
}

// Len returns the number of records. A nil dataset is empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// All iterates the records in order.
func (d *Dataset) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		if d == nil {
			return
		}
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the underlying records.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// SampleRecords returns the built-in demonstration dataset.
func SampleRecords() []Record {
	return []Record{
		{MissDistanceKm: 18000000, DiameterMinM: 300, DiameterMaxM: 500, VelocityKph: 70000, Prediction: Hazardous, CloseApproachDate: date(2025, time.March, 1)},
		{MissDistanceKm: 32000000, DiameterMinM: 10, DiameterMaxM: 25, VelocityKph: 25000, Prediction: NotHazardous, CloseApproachDate: date(2025, time.March, 5)},
		{MissDistanceKm: 1000000, DiameterMinM: 400, DiameterMaxM: 600, VelocityKph: 40000, Prediction: Hazardous, CloseApproachDate: date(2025, time.March, 7)},
		{MissDistanceKm: 800000, DiameterMinM: 18, DiameterMaxM: 45, VelocityKph: 88000, Prediction: NotHazardous, CloseApproachDate: date(2025, time.March, 10)},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
