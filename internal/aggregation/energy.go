package aggregation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sex selects the Mifflin-St Jeor constant
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ActivityLevel selects a TDEE multiplier
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// BMR estimates basal metabolic rate (kcal/day) with the Mifflin-St Jeor equation.
// Any sex other than Male uses the female constant.
func BMR(weightKg, heightCm float64, age int, sex Sex) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == Male {
		return base + 5
	}
	return base - 161
}

// TDEE scales bmr by the activity multiplier; unknown levels count as sedentary
func TDEE(bmr float64, level ActivityLevel) float64 {
	m, ok := activityMultipliers[level]
	if !ok {
		m = activityMultipliers[Sedentary]
	}
	return bmr * m
}

var statusColors = map[Status]string{
	StatusLow:      "#ff6b6b",
	StatusModerate: "#ffa500",
	StatusGood:     "#28a745",
	StatusExceeded: "#dc3545",
}

// StatusColor returns the UI color for a progress status
func StatusColor(s Status) string {
	return statusColors[s]
}

// FormatCalories rounds and groups thousands, e.g. 12345.6 -> "12,346"
func FormatCalories(calories float64) string {
	n := Round(calories)
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// FormatNutrient renders value to one decimal followed by unit, e.g. "12.3g"
func FormatNutrient(value float64, unit string) string {
	return strconv.FormatFloat(math.Round(value*10)/10, 'f', -1, 64) + unit
}

// FormatPercent renders an integer percentage
func FormatPercent(p int) string {
	return fmt.Sprintf("%d%%", p)
}
