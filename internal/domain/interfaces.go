package domain

import (
	"context"
)

// LookupResult is a nutrition record keyed by the resolved dish name
type LookupResult struct {
	DishName  string
	Nutrition NutritionRecord
}

// FoodLookup resolves dish names to per-serving nutrition
type FoodLookup interface {
	// Search fails with a DISH_NOT_FOUND or SERVICE_ERROR AppError.
	Search(ctx context.Context, dishName string) (LookupResult, error)
	ListAll(ctx context.Context) ([]string, error)
}

// Store is durable key -> JSON blob storage
type Store interface {
	// Get reports ok=false when key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
