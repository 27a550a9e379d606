package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
)

// DefaultCalorieGoal is used until the user sets a goal
const DefaultCalorieGoal = 2000

// MealType classifies a log entry
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists meal types in the order of a day
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

// ParseMealType validates a meal type name (case-insensitive)
func ParseMealType(s string) (MealType, error) {
	m := MealType(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", apperrors.NewInvalidArgument("mealType", s, "meal type must be one of breakfast, lunch, dinner, snack")
	}
	return m, nil
}

func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// ValidServings reports whether s is a usable serving multiplier
func ValidServings(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

// LogEntry is one food item recorded in a daily log. Values are immutable:
// use WithServings to change the serving count.
type LogEntry struct {
	ID        string          `json:"id"`
	DishName  string          `json:"dishName"`
	Servings  float64         `json:"servings"`
	MealType  MealType        `json:"mealType"`
	Nutrition NutritionRecord `json:"nutrition"`
	CreatedAt time.Time       `json:"createdAt"`
	Calories  float64         `json:"calories"`
}

// NewLogEntry creates an entry with a fresh id
func NewLogEntry(dishName string, servings float64, meal MealType, nutrition NutritionRecord, createdAt time.Time) LogEntry {
	return LogEntry{
		ID:        uuid.NewString(),
		DishName:  dishName,
		Servings:  servings,
		MealType:  meal,
		Nutrition: nutrition,
		CreatedAt: createdAt,
		Calories:  nutrition.Calories * servings,
	}
}

// WithServings returns a copy with servings and calories updated together
func (e LogEntry) WithServings(servings float64) LogEntry {
	e.Servings = servings
	e.Calories = e.Nutrition.Calories * servings
	return e
}

// NutrientAmount returns the entry's contribution of nutrient n
func (e LogEntry) NutrientAmount(n Nutrient) float64 {
	return e.Nutrition.Value(n) * e.Servings
}

// UnmarshalJSON recomputes calories from the stored nutrition and servings
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	type plain LogEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = LogEntry(p).WithServings(p.Servings)
	return nil
}

// DailyLog is the set of entries recorded for one calendar day
type DailyLog struct {
	Date        string     `json:"-"`
	Entries     []LogEntry `json:"entries"`
	CalorieGoal int        `json:"calorieGoal"`
}

// NewDailyLog returns an empty log for date
func NewDailyLog(date string, goal int) DailyLog {
	if goal <= 0 {
		goal = DefaultCalorieGoal
	}
	return DailyLog{Date: date, Entries: []LogEntry{}, CalorieGoal: goal}
}

// Clone returns a copy that shares no mutable state with l
func (l DailyLog) Clone() DailyLog {
	out := l
	out.Entries = make([]LogEntry, len(l.Entries))
	copy(out.Entries, l.Entries)
	return out
}

// Find returns the index of the entry with id, or -1
func (l DailyLog) Find(id string) int {
	for i, e := range l.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// LogKey is the store key of the log for date
func LogKey(date string) string {
	return "log:" + date
}

// GoalKey is the store key of the process-wide calorie goal
const GoalKey = "goal"
