package asteroid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLabel is returned when a string names neither hazard class.
var ErrUnknownLabel = errors.New("unknown hazard label")

// Label is the two-valued hazard classification of a near-Earth object.
type Label string

const (
	Hazardous    Label = "Hazardous"
	NotHazardous Label = "Not Hazardous"
)

// Labels returns every label in canonical order.
func Labels() []Label {
	return []Label{Hazardous, NotHazardous}
}

// Valid reports whether l is one of the two known labels.
func (l Label) Valid() bool {
	return l == Hazardous || l == NotHazardous
}

func (l Label) String() string {
	return string(l)
}

// ParseLabel accepts either label string, ignoring case and surrounding space.
func ParseLabel(s string) (Label, error) {
	trimmed := strings.TrimSpace(s)
	for _, l := range Labels() {
		if strings.EqualFold(trimmed, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// LabelFromOutput maps a raw model output to a label: any non-zero class is
// Hazardous, zero is Not Hazardous.
func LabelFromOutput(output int) Label {
	if output != 0 {
		return Hazardous
	}
	return NotHazardous
}
