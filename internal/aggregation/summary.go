package aggregation

import "github.com/vladimiradmaev/nutrition-log/internal/domain"

// Summary is a read-only view of one day handed to front ends
type Summary struct {
	Date     string                                `json:"date"`
	Totals   domain.NutritionRecord                `json:"totals"`
	Progress ProgressReport                        `json:"progress"`
	Macros   Macros                                `json:"macros"`
	Meals    map[domain.MealType][]domain.LogEntry `json:"meals"`
	Entries  int                                   `json:"entries"`
}

// Summarize computes every derived view of log at once
func Summarize(log domain.DailyLog) Summary {
	meals := make(map[domain.MealType][]domain.LogEntry, len(domain.MealTypes))
	for _, m := range domain.MealTypes {
		meals[m] = ByMeal(log, m)
	}
	return Summary{
		Date:     log.Date,
		Totals:   TotalNutrition(log),
		Progress: Progress(log),
		Macros:   MacroBreakdown(log),
		Meals:    meals,
		Entries:  len(log.Entries),
	}
}
