package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
	"github.com/vladimiradmaev/nutrition-log/internal/interfaces"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

var _ interfaces.GoalServiceInterface = (*GoalService)(nil)

// GoalService holds the process-wide daily calorie goal. It is stored under
// its own key so it carries across days.
type GoalService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewGoalService(store domain.Store) *GoalService {
	return &GoalService{
		store:  store,
		logger: logger.WithFields("component", "goal_service"),
	}
}

// GetGoal returns the stored goal, or the default when it is absent,
// unreadable or not positive.
func (s *GoalService) GetGoal(ctx context.Context) int {
	raw, ok, err := s.store.Get(ctx, domain.GoalKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read calorie goal", "error", err)
		return domain.DefaultCalorieGoal
	}
	if !ok {
		return domain.DefaultCalorieGoal
	}

	goal, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || goal <= 0 {
		s.logger.WarnContext(ctx, "Ignoring corrupt calorie goal", "value", string(raw))
		return domain.DefaultCalorieGoal
	}
	return goal
}

// SetGoal persists goal. Storage failures are logged, not returned.
func (s *GoalService) SetGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return apperrors.NewInvalidArgument("calorieGoal", goal, "calorie goal must be positive")
	}
	if err := s.store.Set(ctx, domain.GoalKey, []byte(strconv.Itoa(goal))); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist calorie goal", "goal", goal, "error", err)
		return nil
	}
	s.logger.InfoContext(ctx, "Calorie goal updated", "goal", goal)
	return nil
}
