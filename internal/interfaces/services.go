package interfaces

import (
	"context"

	"github.com/vladimiradmaev/nutrition-log/internal/aggregation"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
)

// TrackerServiceInterface defines the contract front ends use to edit and
// read the daily log
type TrackerServiceInterface interface {
	AddFood(ctx context.Context, dishName string, servings float64, meal domain.MealType) (domain.LogEntry, error)
	RemoveFood(ctx context.Context, id string) error
	UpdateServings(ctx context.Context, id string, servings float64) (domain.LogEntry, error)
	ClearDay(ctx context.Context) error
	SetGoal(ctx context.Context, goal int) error
	Today(ctx context.Context) aggregation.Summary
	Entry(ctx context.Context, id string) (domain.LogEntry, error)
	Suggest(ctx context.Context, query string) []string
}

// GoalServiceInterface defines the contract for the process-wide calorie goal
type GoalServiceInterface interface {
	GetGoal(ctx context.Context) int
	SetGoal(ctx context.Context, goal int) error
}
