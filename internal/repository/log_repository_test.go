package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-log/internal/aggregation"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
	"github.com/vladimiradmaev/nutrition-log/internal/lookup"
	"github.com/vladimiradmaev/nutrition-log/internal/store"
)

var day = time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

type fakeGoals struct {
	mu   sync.Mutex
	goal int
}

func (g *fakeGoals) GetGoal(context.Context) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.goal <= 0 {
		return domain.DefaultCalorieGoal
	}
	return g.goal
}

func (g *fakeGoals) SetGoal(_ context.Context, goal int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.goal = goal
	return nil
}

// gatedLookup blocks each search until its dish is released
type gatedLookup struct {
	inner   domain.FoodLookup
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGatedLookup(inner domain.FoodLookup, dishes ...string) *gatedLookup {
	g := &gatedLookup{inner: inner, gates: map[string]chan struct{}{}, started: make(chan string, len(dishes))}
	for _, d := range dishes {
		g.gates[d] = make(chan struct{})
	}
	return g
}

func (g *gatedLookup) release(dish string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[dish])
}

func (g *gatedLookup) Search(ctx context.Context, dish string) (domain.LookupResult, error) {
	g.mu.Lock()
	gate := g.gates[dish]
	g.mu.Unlock()
	g.started <- dish
	<-gate
	return g.inner.Search(context.Background(), dish)
}

func (g *gatedLookup) ListAll(ctx context.Context) ([]string, error) {
	return g.inner.ListAll(ctx)
}

type stubLookup struct {
	err   error
	calls int
}

func (s *stubLookup) Search(ctx context.Context, dish string) (domain.LookupResult, error) {
	s.calls++
	if s.err != nil {
		return domain.LookupResult{}, s.err
	}
	return domain.LookupResult{DishName: dish, Nutrition: domain.NutritionRecord{Calories: 100}}, nil
}

func (s *stubLookup) ListAll(context.Context) ([]string, error) { return nil, nil }

// blockingLookup waits for its context to end
type blockingLookup struct{}

func (blockingLookup) Search(ctx context.Context, dish string) (domain.LookupResult, error) {
	<-ctx.Done()
	return domain.LookupResult{}, ctx.Err()
}

func (blockingLookup) ListAll(context.Context) ([]string, error) { return nil, nil }

type unavailableStore struct{}

func (unavailableStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (unavailableStore) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}
func (unavailableStore) Remove(context.Context, string) error {
	return errors.New("connection refused")
}

func catalogue() *lookup.StaticLookup {
	return lookup.NewStaticLookup(map[string]domain.NutritionRecord{
		"Naan":         {Calories: 260, Carbohydrates: 45, Protein: 8, Fats: 5},
		"Thali":        {Calories: 1200, Carbohydrates: 150, Protein: 40, Fats: 45},
		"Paneer tikka": {Calories: 700, Protein: 45, Fats: 50},
		"Masala dosa":  {Calories: 168, Carbohydrates: 25, Protein: 4, Fats: 6},
	})
}

func newRepo(s domain.Store, l domain.FoodLookup, opts ...Option) *LogRepository {
	opts = append([]Option{WithClock(func() time.Time { return day })}, opts...)
	return NewLogRepository(s, l, &fakeGoals{}, opts...)
}

func TestAddEntryUsesCanonicalNameAndPersists(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	repo := newRepo(mem, catalogue())

	e, err := repo.AddEntry(ctx, "naan", 2, domain.Breakfast)
	require.NoError(t, err)
	assert.Equal(t, "Naan", e.DishName)
	assert.Equal(t, 520.0, e.Calories)
	assert.Equal(t, day, e.CreatedAt)
	assert.NotEmpty(t, e.ID)

	raw, ok, err := mem.Get(ctx, "log:2026-10-16")
	require.NoError(t, err)
	require.True(t, ok)
	var stored struct {
		Entries     []map[string]interface{} `json:"entries"`
		CalorieGoal int                      `json:"calorieGoal"`
	}
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored.Entries, 1)
	assert.Equal(t, "Naan", stored.Entries[0]["dishName"])
	assert.Equal(t, 2000, stored.CalorieGoal)

	p := aggregation.Progress(repo.Snapshot(ctx))
	assert.Equal(t, 520.0, p.TotalCalories)
	assert.Equal(t, 26.0, p.Percentage)
	assert.Equal(t, aggregation.StatusLow, p.Status)
}

func TestAddEntryRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	stub := &stubLookup{}
	repo := newRepo(store.NewMemoryStore(), stub)

	cases := []struct {
		name     string
		dish     string
		servings float64
		meal     domain.MealType
	}{
		{"zero servings", "Naan", 0, domain.Lunch},
		{"negative servings", "Naan", -1, domain.Lunch},
		{"NaN servings", "Naan", math.NaN(), domain.Lunch},
		{"infinite servings", "Naan", math.Inf(1), domain.Lunch},
		{"unknown meal", "Naan", 1, domain.MealType("brunch")},
		{"blank dish", "   ", 1, domain.Lunch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.AddEntry(ctx, tc.dish, tc.servings, tc.meal)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument), "%v", err)
		})
	}
	assert.Zero(t, stub.calls)
	assert.Empty(t, repo.Snapshot(ctx).Entries)
}

func TestAddEntryLookupFailuresLeaveLogUnchanged(t *testing.T) {
	ctx := context.Background()

	repo := newRepo(store.NewMemoryStore(), catalogue())
	_, err := repo.AddEntry(ctx, "Pizza", 1, domain.Dinner)
	assert.True(t, errors.Is(err, apperrors.ErrDishNotFound))
	assert.Equal(t, "Pizza", apperrors.Dish(err))
	assert.Empty(t, repo.Snapshot(ctx).Entries)

	svcErr := apperrors.NewServiceError("Naan", 503, nil)
	repo = newRepo(store.NewMemoryStore(), &stubLookup{err: svcErr})
	_, err = repo.AddEntry(ctx, "Naan", 1, domain.Dinner)
	assert.Same(t, svcErr, err)
	assert.Equal(t, 503, apperrors.StatusCode(err))
	assert.Empty(t, repo.Snapshot(ctx).Entries)
}

func TestAddEntryTimeoutIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(store.NewMemoryStore(), blockingLookup{}, WithLookupTimeout(20*time.Millisecond))

	_, err := repo.AddEntry(ctx, "Naan", 1, domain.Lunch)
	assert.True(t, errors.Is(err, apperrors.ErrDishNotFound))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "Naan", apperrors.Dish(err))
	assert.Empty(t, repo.Snapshot(ctx).Entries)
}

func TestAddEntryDiscardsResultWhenCallerGivesUp(t *testing.T) {
	gated := newGatedLookup(catalogue(), "Naan")
	repo := newRepo(store.NewMemoryStore(), gated)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := repo.AddEntry(ctx, "Naan", 1, domain.Lunch)
		done <- err
	}()

	<-gated.started
	cancel()
	gated.release("Naan")

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, repo.Snapshot(context.Background()).Entries)
}

func TestConcurrentAddsBothLand(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	gated := newGatedLookup(catalogue(), "Naan", "Masala dosa")
	repo := newRepo(mem, gated)

	var wg sync.WaitGroup
	for _, dish := range []string{"Naan", "Masala dosa"} {
		wg.Add(1)
		go func(dish string) {
			defer wg.Done()
			_, err := repo.AddEntry(ctx, dish, 1, domain.Lunch)
			assert.NoError(t, err)
		}(dish)
	}

	<-gated.started
	<-gated.started
	gated.release("Masala dosa")
	gated.release("Naan")
	wg.Wait()

	snap := repo.Snapshot(ctx)
	require.Len(t, snap.Entries, 2)
	names := []string{snap.Entries[0].DishName, snap.Entries[1].DishName}
	assert.ElementsMatch(t, []string{"Naan", "Masala dosa"}, names)

	reloaded, err := newRepo(mem, catalogue()).Load(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Len(t, reloaded.Entries, 2)
}

func TestRemoveAndUpdateServings(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(store.NewMemoryStore(), catalogue())

	naan, err := repo.AddEntry(ctx, "Naan", 1, domain.Breakfast)
	require.NoError(t, err)
	dosa, err := repo.AddEntry(ctx, "Masala dosa", 1, domain.Breakfast)
	require.NoError(t, err)

	before := repo.Snapshot(ctx)
	require.NoError(t, repo.RemoveEntry(ctx, "missing"))
	assert.Equal(t, before, repo.Snapshot(ctx))

	_, err = repo.UpdateServings(ctx, "missing", 2)
	assert.True(t, errors.Is(err, apperrors.ErrEntryNotFound))

	_, err = repo.UpdateServings(ctx, naan.ID, 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	updated, err := repo.UpdateServings(ctx, naan.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Servings)
	assert.Equal(t, updated.Nutrition.Calories*2.5, updated.Calories)
	assert.Equal(t, updated, repo.Snapshot(ctx).Entries[0])

	require.NoError(t, repo.RemoveEntry(ctx, naan.ID))
	snap := repo.Snapshot(ctx)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, dosa.ID, snap.Entries[0].ID)
	assert.Equal(t, before.Entries[0].ID, naan.ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(store.NewMemoryStore(), catalogue())
	_, err := repo.AddEntry(ctx, "Naan", 1, domain.Lunch)
	require.NoError(t, err)

	snap := repo.Snapshot(ctx)
	snap.Entries[0] = snap.Entries[0].WithServings(10)
	assert.Equal(t, 1.0, repo.Snapshot(ctx).Entries[0].Servings)
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, n := range []int{0, 1, 4} {
		mem := store.NewMemoryStore()
		repo := newRepo(mem, catalogue())
		require.NoError(t, repo.SetGoal(ctx, 1800))
		dishes := []string{"Naan", "Thali", "Paneer tikka", "Masala dosa"}
		for i := 0; i < n; i++ {
			_, err := repo.AddEntry(ctx, dishes[i], float64(i)+0.5, domain.MealTypes[i%len(domain.MealTypes)])
			require.NoError(t, err)
		}
		want := repo.Snapshot(ctx)

		got, err := newRepo(mem, catalogue()).Load(ctx, "2026-10-16")
		require.NoError(t, err)
		assert.Equal(t, want, got, "%d entries", n)
		assert.Equal(t, 1800, got.CalorieGoal)
	}
}

func TestLoadFallsBackToEmptyLog(t *testing.T) {
	ctx := context.Background()
	goals := &fakeGoals{goal: 2400}

	mem := store.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, "log:2026-10-16", []byte("{not json")))
	require.NoError(t, mem.Set(ctx, "log:2026-10-17", []byte(`{"entries":null,"calorieGoal":0}`)))
	repo := NewLogRepository(mem, catalogue(), goals)

	for _, date := range []string{"2026-10-15", "2026-10-16", "2026-10-17"} {
		log, err := repo.Load(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, date, log.Date)
		assert.Empty(t, log.Entries)
		assert.NotNil(t, log.Entries)
		assert.Equal(t, 2400, log.CalorieGoal)
	}

	_, err := repo.Load(ctx, "16/10/2026")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestStoredGoalWinsOverGlobal(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, "log:2026-10-16", []byte(`{"entries":[],"calorieGoal":1500}`)))

	log, err := NewLogRepository(mem, catalogue(), &fakeGoals{goal: 2400}).Load(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 1500, log.CalorieGoal)
}

func TestPersistenceFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(unavailableStore{}, catalogue())

	log, err := repo.Load(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Empty(t, log.Entries)

	e, err := repo.AddEntry(ctx, "Naan", 1, domain.Snack)
	require.NoError(t, err)
	require.NoError(t, repo.RemoveEntry(ctx, e.ID))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.SetGoal(ctx, 1700))
	assert.Equal(t, 1700, repo.Snapshot(ctx).CalorieGoal)
}

func TestClearRemovesStoredLog(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	repo := newRepo(mem, catalogue())

	_, err := repo.AddEntry(ctx, "Naan", 1, domain.Lunch)
	require.NoError(t, err)
	require.NoError(t, repo.Clear(ctx))

	assert.Empty(t, repo.Snapshot(ctx).Entries)
	_, ok, _ := mem.Get(ctx, "log:2026-10-16")
	assert.False(t, ok)

	log, err := newRepo(mem, catalogue()).Load(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Empty(t, log.Entries)
}

func TestSetGoal(t *testing.T) {
	ctx := context.Background()
	goals := &fakeGoals{}
	repo := NewLogRepository(store.NewMemoryStore(), catalogue(), goals, WithClock(func() time.Time { return day }))

	assert.True(t, errors.Is(repo.SetGoal(ctx, 0), apperrors.ErrInvalidArgument))
	require.NoError(t, repo.SetGoal(ctx, 1900))
	assert.Equal(t, 1900, goals.GetGoal(ctx))
	assert.Equal(t, 1900, repo.Snapshot(ctx).CalorieGoal)
}

func TestRolloverStartsEmptyDayWithGoal(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	now := day
	repo := NewLogRepository(mem, catalogue(), &fakeGoals{}, WithClock(func() time.Time { return now }))

	require.NoError(t, repo.SetGoal(ctx, 1800))
	_, err := repo.AddEntry(ctx, "Naan", 1, domain.Dinner)
	require.NoError(t, err)
	assert.False(t, repo.Refresh(ctx))

	now = day.Add(24 * time.Hour)
	assert.True(t, repo.Refresh(ctx))
	snap := repo.Snapshot(ctx)
	assert.Equal(t, "2026-10-17", snap.Date)
	assert.Empty(t, snap.Entries)
	assert.Equal(t, 1800, snap.CalorieGoal)

	assert.True(t, repo.Rollover(ctx, day))
	assert.Len(t, repo.Snapshot(ctx).Entries, 1)
}

func TestLoadSkipsInvalidStoredEntries(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, "log:2026-10-16", []byte(`{"entries":[
		{"id":"a","dishName":"Naan","servings":2,"mealType":"lunch","nutrition":{"calories":260},"createdAt":"2026-10-16T08:00:00Z"},
		{"id":"b","dishName":"Idli","servings":0,"mealType":"breakfast","nutrition":{"calories":39},"createdAt":"2026-10-16T08:00:00Z"},
		{"id":"c","dishName":"Sambar","servings":-1,"mealType":"lunch","nutrition":{"calories":130},"createdAt":"2026-10-16T08:00:00Z"},
		{"id":"d","dishName":"Lassi","servings":1,"mealType":"brunch","nutrition":{"calories":150},"createdAt":"2026-10-16T08:00:00Z"}
	],"calorieGoal":1800}`)))

	log, err := newRepo(mem, catalogue()).Load(ctx, "2026-10-16")
	require.NoError(t, err)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, "a", log.Entries[0].ID)
	assert.Equal(t, 1800, log.CalorieGoal)
	for _, e := range log.Entries {
		assert.Greater(t, e.Servings, 0.0)
	}
}

// stallOnce hangs on its first search until the context ends and answers
// every later search from inner.
type stallOnce struct {
	inner domain.FoodLookup
	mu    sync.Mutex
	calls int
}

func (s *stallOnce) Search(ctx context.Context, dish string) (domain.LookupResult, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()
	if first {
		<-ctx.Done()
		return domain.LookupResult{}, ctx.Err()
	}
	return s.inner.Search(ctx, dish)
}

func (s *stallOnce) ListAll(ctx context.Context) ([]string, error) { return s.inner.ListAll(ctx) }

func TestAddEntryRecoversFromHungCachedLookup(t *testing.T) {
	ctx := context.Background()
	upstream := &stallOnce{inner: catalogue()}
	cached := lookup.NewCachedLookup(upstream, 8, time.Hour, lookup.WithFlightTimeout(time.Hour))
	repo := newRepo(store.NewMemoryStore(), cached, WithLookupTimeout(50*time.Millisecond))

	_, err := repo.AddEntry(ctx, "Naan", 1, domain.Lunch)
	assert.True(t, errors.Is(err, apperrors.ErrDishNotFound))

	e, err := repo.AddEntry(ctx, "Naan", 1, domain.Lunch)
	require.NoError(t, err)
	assert.Equal(t, "Naan", e.DishName)
	assert.Len(t, repo.Snapshot(ctx).Entries, 1)
}
