// ABOUTME: BMI-based workout and diet recommendations.
// ABOUTME: Pure functions over a user's height, weight and health notes.
package recommend

import (
	"fmt"
	"strings"
)

// Band is a BMI classification.
type Band int

const (
	Underweight Band = iota
	Normal
	Overweight
	Obese
)

const (
	missingProfile = "Set your height and weight to get personalized recommendations.\n"
	cautionLine    = "Because of health notes, avoid high-intensity without clearance; favor low-impact and supervised workouts.\n"
)

var advice = map[Band]string{
	Underweight: "Underweight: focus on gentle strength training and calorie-dense nutritious meals.\n",
	Normal:      "Normal weight: good job. Mix cardio, strength, and mobility.\n",
	Overweight:  "Overweight: recommend regular moderate cardio and resistance training. Watch diet.\n",
	Obese:       "Obese: focus on low-impact cardio (walking, cycling) and consult a healthcare professional before intense exercise.\n",
}

func (b Band) String() string {
	switch b {
	case Underweight:
		return "Underweight"
	case Normal:
		return "Normal weight"
	case Overweight:
		return "Overweight"
	case Obese:
		return "Obese"
	}
	return "unknown"
}

// Advice returns the advisory line for the band.
func (b Band) Advice() string {
	return advice[b]
}

// BMI returns weight / (height in metres)^2.
func BMI(heightCm, weightKg float64) float64 {
	m := heightCm / 100.0
	return weightKg / (m * m)
}

// Classify maps a BMI value onto its band. Lower bounds are inclusive.
func Classify(bmi float64) Band {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}

// Recommend builds the recommendation text for a profile. Health notes and
// the caution line are appended whether or not BMI can be computed.
func Recommend(heightCm, weightKg *float64, notes string) string {
	var sb strings.Builder
	if heightCm == nil || weightKg == nil || *heightCm <= 0 || *weightKg <= 0 {
		sb.WriteString(missingProfile)
	} else {
		bmi := BMI(*heightCm, *weightKg)
		sb.WriteString(fmt.Sprintf("Your BMI: %.1f\n", bmi))
		sb.WriteString(Classify(bmi).Advice())
	}

	if strings.TrimSpace(notes) != "" {
		sb.WriteString("\nHealth notes: " + notes + "\n")
		sb.WriteString(cautionLine)
	}
	return sb.String()
}
