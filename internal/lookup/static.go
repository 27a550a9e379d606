package lookup

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
)

// StaticLookup serves a fixed catalogue, matching names case-insensitively
type StaticLookup struct {
	mu    sync.RWMutex
	foods map[string]domain.LookupResult
	names []string
}

func NewStaticLookup(foods map[string]domain.NutritionRecord) *StaticLookup {
	s := &StaticLookup{foods: make(map[string]domain.LookupResult, len(foods))}
	for name, n := range foods {
		s.Put(name, n)
	}
	return s
}

// Put adds or replaces a dish
func (s *StaticLookup) Put(name string, n domain.NutritionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(name)
	if _, exists := s.foods[key]; !exists {
		s.names = append(s.names, name)
		sort.Strings(s.names)
	}
	s.foods[key] = domain.LookupResult{DishName: name, Nutrition: n}
}

func (s *StaticLookup) Search(ctx context.Context, dishName string) (domain.LookupResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.foods[strings.ToLower(strings.TrimSpace(dishName))]
	if !ok {
		return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, nil)
	}
	return r, nil
}

func (s *StaticLookup) ListAll(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...), nil
}
