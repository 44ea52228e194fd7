// ABOUTME: Workout intensity levels and their MET multipliers.
// ABOUTME: Used by the calorie estimator to scale energy expenditure.
package models

import (
	"fmt"
	"strings"
)

// Intensity is the effort level chosen when a workout is stopped.
type Intensity string

const (
	// IntensityNone means the selection was cancelled.
	IntensityNone     Intensity = ""
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// IntensityMET maps intensity levels to metabolic equivalents.
var IntensityMET = map[Intensity]float64{
	IntensityLow:      3.5,
	IntensityModerate: 6.0,
	IntensityHigh:     8.0,
}

// IntensityLabels maps intensity levels to display labels.
var IntensityLabels = map[Intensity]string{
	IntensityLow:      "Low (MET 3.5 - walking)",
	IntensityModerate: "Moderate (MET 6 - jogging)",
	IntensityHigh:     "High (MET 8 - running)",
}

// AllIntensities returns the selectable levels in ascending order.
var AllIntensities = []Intensity{IntensityLow, IntensityModerate, IntensityHigh}

// MET returns the metabolic equivalent for the level, or 0 for unknown levels.
func (i Intensity) MET() float64 {
	return IntensityMET[i]
}

// Title returns the capitalized level name.
func (i Intensity) Title() string {
	switch i {
	case IntensityLow:
		return "Low"
	case IntensityModerate:
		return "Moderate"
	case IntensityHigh:
		return "High"
	}
	return ""
}

// ParseIntensity parses a level name. Empty input and "cancel" yield IntensityNone.
func ParseIntensity(s string) (Intensity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l", "1":
		return IntensityLow, nil
	case "moderate", "medium", "m", "2":
		return IntensityModerate, nil
	case "high", "h", "3":
		return IntensityHigh, nil
	case "", "cancel", "c":
		return IntensityNone, nil
	}
	return IntensityNone, fmt.Errorf("unknown intensity: %s (use low, moderate, or high)", s)
}
