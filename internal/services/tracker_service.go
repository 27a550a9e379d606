package services

import (
	"context"
	"log/slog"

	"github.com/vladimiradmaev/nutrition-log/internal/aggregation"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
	"github.com/vladimiradmaev/nutrition-log/internal/interfaces"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
	"github.com/vladimiradmaev/nutrition-log/internal/lookup"
	"github.com/vladimiradmaev/nutrition-log/internal/repository"
)

var _ interfaces.TrackerServiceInterface = (*TrackerService)(nil)

// TrackerService is what front ends talk to. It keeps the repository on the
// current day and turns its log into summaries.
type TrackerService struct {
	repo   *repository.LogRepository
	foods  domain.FoodLookup
	errors *apperrors.Handler
	logger *slog.Logger
}

func NewTrackerService(repo *repository.LogRepository, foods domain.FoodLookup) *TrackerService {
	log := logger.WithFields("component", "tracker_service")
	return &TrackerService{
		repo:   repo,
		foods:  foods,
		errors: apperrors.NewHandler(log),
		logger: log,
	}
}

// AddFood looks up dishName and records servings of it under meal
func (s *TrackerService) AddFood(ctx context.Context, dishName string, servings float64, meal domain.MealType) (domain.LogEntry, error) {
	s.repo.Refresh(ctx)
	entry, err := s.repo.AddEntry(ctx, dishName, servings, meal)
	if err != nil {
		return domain.LogEntry{}, s.errors.LogAndReturn(ctx, err)
	}
	return entry, nil
}

func (s *TrackerService) RemoveFood(ctx context.Context, id string) error {
	s.repo.Refresh(ctx)
	return s.errors.LogAndReturn(ctx, s.repo.RemoveEntry(ctx, id))
}

func (s *TrackerService) UpdateServings(ctx context.Context, id string, servings float64) (domain.LogEntry, error) {
	s.repo.Refresh(ctx)
	entry, err := s.repo.UpdateServings(ctx, id, servings)
	if err != nil {
		return domain.LogEntry{}, s.errors.LogAndReturn(ctx, err)
	}
	return entry, nil
}

func (s *TrackerService) ClearDay(ctx context.Context) error {
	s.repo.Refresh(ctx)
	return s.errors.LogAndReturn(ctx, s.repo.Clear(ctx))
}

func (s *TrackerService) SetGoal(ctx context.Context, goal int) error {
	s.repo.Refresh(ctx)
	return s.errors.LogAndReturn(ctx, s.repo.SetGoal(ctx, goal))
}

// Today summarises the current day's log, starting a new day if the date
// has changed since the last call.
func (s *TrackerService) Today(ctx context.Context) aggregation.Summary {
	if s.repo.Refresh(ctx) {
		s.logger.InfoContext(ctx, "Started a new daily log")
	}
	return aggregation.Summarize(s.repo.Snapshot(ctx))
}

// Entry returns the current day's entry with id
func (s *TrackerService) Entry(ctx context.Context, id string) (domain.LogEntry, error) {
	log := s.repo.Snapshot(ctx)
	if i := log.Find(id); i >= 0 {
		return log.Entries[i], nil
	}
	return domain.LogEntry{}, apperrors.NewEntryNotFound(id)
}

// Suggest lists known dishes matching query
func (s *TrackerService) Suggest(ctx context.Context, query string) []string {
	return lookup.Suggest(ctx, s.foods, query)
}
