// Package aggregation derives totals, calorie progress and macro breakdowns
// from a daily log snapshot. Every function is pure.
package aggregation

import (
	"math"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
)

// Status classifies calorie intake against the goal
type Status string

const (
	StatusLow      Status = "low"
	StatusModerate Status = "moderate"
	StatusGood     Status = "good"
	StatusExceeded Status = "exceeded"
)

// ProgressReport describes calorie intake relative to the daily goal
type ProgressReport struct {
	TotalCalories float64 `json:"totalCalories"`
	CalorieGoal   int     `json:"calorieGoal"`
	// Percentage is clamped to [0, 100] for display.
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
	Exceeded   bool    `json:"exceeded"`
	Status     Status  `json:"status"`
}

// Macros holds each macronutrient's share of total macro grams, in percent
type Macros struct {
	Carbs   int `json:"carbs"`
	Protein int `json:"protein"`
	Fats    int `json:"fats"`
}

// TotalCalories sums the entries' calories
func TotalCalories(log domain.DailyLog) float64 {
	total := 0.0
	for _, e := range log.Entries {
		total += e.Calories
	}
	return total
}

// TotalNutrition sums nutrition*servings over all entries
func TotalNutrition(log domain.DailyLog) domain.NutritionRecord {
	var total domain.NutritionRecord
	for _, e := range log.Entries {
		total = total.Add(e.Nutrition.Scale(e.Servings))
	}
	return total
}

// ByMeal returns the entries of one meal in insertion order
func ByMeal(log domain.DailyLog, meal domain.MealType) []domain.LogEntry {
	out := []domain.LogEntry{}
	for _, e := range log.Entries {
		if e.MealType == meal {
			out = append(out, e)
		}
	}
	return out
}

// Progress reports calorie intake against the log's goal. The status uses
// the raw percentage; only the displayed percentage saturates at 100.
func Progress(log domain.DailyLog) ProgressReport {
	goal := log.CalorieGoal
	if goal <= 0 {
		goal = domain.DefaultCalorieGoal
	}
	total := TotalCalories(log)
	raw := rawPercentage(total, goal)

	return ProgressReport{
		TotalCalories: total,
		CalorieGoal:   goal,
		Percentage:    math.Min(math.Max(raw, 0), 100),
		Remaining:     math.Max(float64(goal)-total, 0),
		Exceeded:      total > float64(goal),
		Status:        StatusFor(raw),
	}
}

// rawPercentage multiplies before dividing so exact ratios such as
// 2200/2000 land on 110 rather than 110.00000000000001.
func rawPercentage(total float64, goal int) float64 {
	return total * 100 / float64(goal)
}

// StatusFor classifies an unclamped percentage
func StatusFor(percentage float64) Status {
	switch {
	case percentage < 50:
		return StatusLow
	case percentage < 80:
		return StatusModerate
	case percentage <= 110:
		return StatusGood
	default:
		return StatusExceeded
	}
}

// MacroBreakdown returns carbs, protein and fats as rounded percentages of
// their combined grams. All three are zero when there are no macro grams.
func MacroBreakdown(log domain.DailyLog) Macros {
	n := TotalNutrition(log)
	total := n.Carbohydrates + n.Protein + n.Fats
	if total == 0 {
		return Macros{}
	}
	return Macros{
		Carbs:   Round(n.Carbohydrates / total * 100),
		Protein: Round(n.Protein / total * 100),
		Fats:    Round(n.Fats / total * 100),
	}
}

// Round rounds half away from zero for display
func Round(v float64) int {
	return int(math.Round(v))
}

// DisplayPercentage is the rounded, clamped percentage shown to users
func (p ProgressReport) DisplayPercentage() int {
	return Round(p.Percentage)
}
