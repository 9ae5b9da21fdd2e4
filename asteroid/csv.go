package asteroid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var csvColumns = []string{
	"miss_distance_km",
	"diameter_min_m",
	"diameter_max_m",
	"velocity_kph",
	"prediction",
	"close_approach_date",
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// ReadCSV decodes records from a CSV stream with a header row. Columns may
// appear in any order; a leading UTF-8 or UTF-16 byte order mark is honoured
// so spreadsheet exports load unchanged.
func ReadCSV(r io.Reader) ([]Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", col)
		}
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, index map[string]int) (Record, error) {
	var rec Record
	floats := []struct {
		col string
		dst *float64
	}{
		{"miss_distance_km", &rec.MissDistanceKm},
		{"diameter_min_m", &rec.DiameterMinM},
		{"diameter_max_m", &rec.DiameterMaxM},
		{"velocity_kph", &rec.VelocityKph},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[index[f.col]]), 64)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = v
	}

	label, err := ParseLabel(row[index["prediction"]])
	if err != nil {
		return Record{}, err
	}
	rec.Prediction = label

	when, err := ParseDate(row[index["close_approach_date"]])
	if err != nil {
		return Record{}, err
	}
	rec.CloseApproachDate = when
	return rec, nil
}

// ParseDate accepts a calendar date, an RFC 3339 timestamp or a
// "YYYY-MM-DD hh:mm:ss" timestamp, interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("close_approach_date: unrecognised date %q", s)
}
