package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
	"github.com/vladimiradmaev/nutrition-log/internal/utils"
)

// DefaultLookupTimeout bounds a single food lookup made by AddEntry
const DefaultLookupTimeout = 10 * time.Second

// GoalManager provides the process-wide calorie goal
type GoalManager interface {
	GetGoal(ctx context.Context) int
	SetGoal(ctx context.Context, goal int) error
}

// LogRepository owns the daily log of the current day and persists it
// after every change. Lookups run outside the lock; the append and the
// persist that follows run under one writer lock so concurrent adds
// never lose entries.
type LogRepository struct {
	store         domain.Store
	lookup        domain.FoodLookup
	goals         GoalManager
	clock         func() time.Time
	lookupTimeout time.Duration
	logger        *slog.Logger
	errors        *apperrors.Handler

	mu      sync.RWMutex
	current domain.DailyLog
	loaded  bool
}

type Option func(*LogRepository)

// WithClock replaces time.Now, mainly for tests
func WithClock(clock func() time.Time) Option {
	return func(r *LogRepository) {
		r.clock = clock
	}
}

func WithLookupTimeout(d time.Duration) Option {
	return func(r *LogRepository) {
		if d > 0 {
			r.lookupTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *LogRepository) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewLogRepository(store domain.Store, lookup domain.FoodLookup, goals GoalManager, opts ...Option) *LogRepository {
	r := &LogRepository{
		store:         store,
		lookup:        lookup,
		goals:         goals,
		clock:         time.Now,
		lookupTimeout: DefaultLookupTimeout,
		logger:        logger.WithFields("component", "log_repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.errors = apperrors.NewHandler(r.logger)
	return r
}

func (r *LogRepository) now() time.Time {
	return r.clock().UTC()
}

// today is the day key in the clock's own location
func (r *LogRepository) today() string {
	return utils.DateKey(r.clock())
}

// Load reads the log for dateKey and makes it the current log. Missing,
// corrupt or unreadable data yields an empty log with the global goal.
func (r *LogRepository) Load(ctx context.Context, dateKey string) (domain.DailyLog, error) {
	date, err := utils.ParseDateKey(dateKey)
	if err != nil {
		return domain.DailyLog{}, apperrors.NewInvalidArgument("date", dateKey, "date must be formatted as YYYY-MM-DD")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked(ctx, date)
	return r.current.Clone(), nil
}

func (r *LogRepository) loadLocked(ctx context.Context, date string) {
	r.current = r.read(ctx, date)
	r.loaded = true
	r.logger.DebugContext(ctx, "Daily log loaded",
		"date", date,
		"entries", len(r.current.Entries),
		"calorie_goal", r.current.CalorieGoal)
}

func (r *LogRepository) read(ctx context.Context, date string) domain.DailyLog {
	empty := func() domain.DailyLog {
		return domain.NewDailyLog(date, r.goals.GetGoal(ctx))
	}

	raw, ok, err := r.store.Get(ctx, domain.LogKey(date))
	if err != nil {
		r.errors.Handle(ctx, apperrors.NewStorageError(err, domain.LogKey(date)))
		return empty()
	}
	if !ok {
		return empty()
	}

	var stored domain.DailyLog
	if err := json.Unmarshal(raw, &stored); err != nil {
		r.logger.WarnContext(ctx, "Discarding corrupt daily log", "date", date, "error", err)
		return empty()
	}

	log := empty()
	if stored.CalorieGoal > 0 {
		log.CalorieGoal = stored.CalorieGoal
	}
	for _, e := range stored.Entries {
		if !domain.ValidServings(e.Servings) || !e.MealType.Valid() {
			r.logger.WarnContext(ctx, "Skipping invalid stored entry",
				"date", date,
				"entry_id", e.ID,
				"servings", e.Servings,
				"meal_type", string(e.MealType))
			continue
		}
		log.Entries = append(log.Entries, e)
	}
	return log
}

// ensureLoadedLocked loads today's log on first use
func (r *LogRepository) ensureLoadedLocked(ctx context.Context) {
	if !r.loaded {
		r.loadLocked(ctx, r.today())
	}
}

func (r *LogRepository) persistLocked(ctx context.Context) {
	key := domain.LogKey(r.current.Date)
	data, err := json.Marshal(r.current)
	if err != nil {
		r.errors.Handle(ctx, apperrors.NewInternalError(err).WithContext("key", key))
		return
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		r.errors.Handle(ctx, apperrors.NewStorageError(err, key))
	}
}

// AddEntry resolves dishName with the food lookup and appends the result to
// the current log. A failed lookup leaves the log unchanged. If ctx ends
// while the lookup is in flight the result is discarded.
func (r *LogRepository) AddEntry(ctx context.Context, dishName string, servings float64, meal domain.MealType) (domain.LogEntry, error) {
	dishName = strings.TrimSpace(dishName)
	if dishName == "" {
		return domain.LogEntry{}, apperrors.NewInvalidArgument("dishName", dishName, "dish name must not be empty")
	}
	if !domain.ValidServings(servings) {
		return domain.LogEntry{}, apperrors.NewInvalidArgument("servings", servings, "servings must be a positive number")
	}
	if !meal.Valid() {
		return domain.LogEntry{}, apperrors.NewInvalidArgument("mealType", meal, "meal type must be one of breakfast, lunch, dinner, snack")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	result, err := r.lookup.Search(lookupCtx, dishName)
	cancel()

	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.DebugContext(ctx, "Discarding lookup result for abandoned request", "dish", dishName)
		return domain.LogEntry{}, ctxErr
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, apperrors.ErrDishNotFound) {
			err = apperrors.NewDishNotFound(dishName, err)
		}
		return domain.LogEntry{}, err
	}

	name := strings.TrimSpace(result.DishName)
	if name == "" {
		name = dishName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoadedLocked(ctx)

	entry := domain.NewLogEntry(name, servings, meal, result.Nutrition, r.now())
	r.current.Entries = append(r.current.Entries, entry)
	r.persistLocked(ctx)

	r.logger.InfoContext(ctx, "Log entry added",
		"id", entry.ID,
		"dish", entry.DishName,
		"servings", servings,
		"meal", meal,
		"calories", entry.Calories)
	return entry, nil
}

// RemoveEntry deletes the entry with id. Unknown ids are ignored.
func (r *LogRepository) RemoveEntry(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoadedLocked(ctx)

	i := r.current.Find(id)
	if i < 0 {
		return nil
	}
	entries := make([]domain.LogEntry, 0, len(r.current.Entries)-1)
	entries = append(entries, r.current.Entries[:i]...)
	r.current.Entries = append(entries, r.current.Entries[i+1:]...)
	r.persistLocked(ctx)

	r.logger.InfoContext(ctx, "Log entry removed", "id", id)
	return nil
}

// UpdateServings changes the serving count of the entry with id
func (r *LogRepository) UpdateServings(ctx context.Context, id string, servings float64) (domain.LogEntry, error) {
	if !domain.ValidServings(servings) {
		return domain.LogEntry{}, apperrors.NewInvalidArgument("servings", servings, "servings must be a positive number")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoadedLocked(ctx)

	i := r.current.Find(id)
	if i < 0 {
		return domain.LogEntry{}, apperrors.NewEntryNotFound(id)
	}
	entry := r.current.Entries[i].WithServings(servings)
	r.current.Entries[i] = entry
	r.persistLocked(ctx)
	return entry, nil
}

// Clear empties the current log and removes its stored copy
func (r *LogRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoadedLocked(ctx)

	r.current.Entries = []domain.LogEntry{}
	key := domain.LogKey(r.current.Date)
	if err := r.store.Remove(ctx, key); err != nil {
		r.errors.Handle(ctx, apperrors.NewStorageError(err, key))
	}
	r.logger.InfoContext(ctx, "Daily log cleared", "date", r.current.Date)
	return nil
}

// SetGoal stores the global goal and applies it to the current log
func (r *LogRepository) SetGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return apperrors.NewInvalidArgument("calorieGoal", goal, "calorie goal must be positive")
	}
	if err := r.goals.SetGoal(ctx, goal); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoadedLocked(ctx)
	r.current.CalorieGoal = goal
	r.persistLocked(ctx)
	return nil
}

// Snapshot returns a copy of the current log that is safe to hand out
func (r *LogRepository) Snapshot(ctx context.Context) domain.DailyLog {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.current.Clone()
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoadedLocked(ctx)
	return r.current.Clone()
}

// Rollover switches to the log of now's calendar day when it differs from
// the current one. It reports whether a new day was loaded.
func (r *LogRepository) Rollover(ctx context.Context, now time.Time) bool {
	date := utils.DateKey(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded && r.current.Date == date {
		return false
	}
	r.loadLocked(ctx, date)
	return true
}

// Refresh rolls over to the clock's current day
func (r *LogRepository) Refresh(ctx context.Context) bool {
	return r.Rollover(ctx, r.clock())
}
