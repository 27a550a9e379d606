package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	"github.com/vladimiradmaev/nutrition-log/internal/lookup"
	"github.com/vladimiradmaev/nutrition-log/internal/repository"
	"github.com/vladimiradmaev/nutrition-log/internal/services"
	"github.com/vladimiradmaev/nutrition-log/internal/store"
)

const (
	chatID = int64(100)
	userID = int64(7)
)

type fakeAPI struct {
	sent       []tgbotapi.MessageConfig
	requests   []tgbotapi.Chattable
	requestErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	api     *fakeAPI
	states  *state.Manager
	tracker *services.TrackerService
	handler *UpdateHandler
}

func newFixture() *fixture {
	mem := store.NewMemoryStore()
	foods := lookup.NewStaticLookup(map[string]domain.NutritionRecord{
		"Naan":        {Calories: 260, Carbohydrates: 45, Protein: 8, Fats: 5},
		"Masala dosa": {Calories: 168, Carbohydrates: 25, Protein: 4, Fats: 6},
	})
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	repo := repository.NewLogRepository(mem, foods, services.NewGoalService(mem),
		repository.WithClock(func() time.Time { return now }))
	tracker := services.NewTrackerService(repo, foods)

	f := &fixture{api: &fakeAPI{}, states: state.NewManager(), tracker: tracker}
	f.handler = NewUpdateHandler(f.api, Dependencies{Tracker: tracker}, f.states)
	return f
}

func command(text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: s,
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func TestAddCommand(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.handler.Handle(ctx, command("/add 2 breakfast naan")))
	assert.Contains(t, f.api.last(t).Text, "Naan ×2 · 520 kcal")

	s := f.tracker.Today(ctx)
	assert.Equal(t, 520.0, s.Progress.TotalCalories)
	assert.Len(t, s.Meals[domain.Breakfast], 1)

	require.NoError(t, f.handler.Handle(ctx, command("/add 1 lunch pizza")))
	assert.Contains(t, f.api.last(t).Text, `Could not find "pizza"`)

	require.NoError(t, f.handler.Handle(ctx, command("/add 0 lunch naan")))
	assert.Contains(t, f.api.last(t).Text, "servings must be a positive number")
	assert.Equal(t, 1, f.tracker.Today(ctx).Entries)
}

func TestDishTextThenMealButton(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.handler.Handle(ctx, text("1.5 masala dosa")))
	assert.Equal(t, state.WaitingForMeal, f.states.GetUserState(userID))
	assert.Equal(t, keyboards.MealTypeMenu(), f.api.last(t).ReplyMarkup)

	require.NoError(t, f.handler.Handle(ctx, callback("meal:dinner")))
	assert.Contains(t, f.api.last(t).Text, "Masala dosa ×1.5 · 252 kcal")
	assert.Equal(t, state.None, f.states.GetUserState(userID))

	entries := f.tracker.Today(ctx).Meals[domain.Dinner]
	require.Len(t, entries, 1)
	assert.Equal(t, 1.5, entries[0].Servings)

	require.NoError(t, f.handler.Handle(ctx, callback("meal:lunch")))
	assert.Equal(t, "Send a dish name first.", f.api.last(t).Text)
}

func TestGoalFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.handler.Handle(ctx, callback(keyboards.CallbackGoal)))
	assert.Contains(t, f.api.last(t).Text, "2000 kcal")
	assert.Equal(t, state.WaitingForGoal, f.states.GetUserState(userID))

	require.NoError(t, f.handler.Handle(ctx, text("-5")))
	assert.Contains(t, f.api.last(t).Text, "calorie goal must be positive")
	assert.Equal(t, state.WaitingForGoal, f.states.GetUserState(userID))

	require.NoError(t, f.handler.Handle(ctx, text("1800")))
	assert.Equal(t, "🎯 Daily goal set to 1800 kcal.", f.api.last(t).Text)
	assert.Equal(t, 1800, f.tracker.Today(ctx).Progress.CalorieGoal)

	require.NoError(t, f.handler.Handle(ctx, command("/goal 2100")))
	assert.Equal(t, 2100, f.tracker.Today(ctx).Progress.CalorieGoal)
}

func TestServingsRemoveAndClear(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	entry, err := f.tracker.AddFood(ctx, "Naan", 1, domain.Lunch)
	require.NoError(t, err)

	require.NoError(t, f.handler.Handle(ctx, command("/servings "+entry.ID+" 3")))
	assert.Contains(t, f.api.last(t).Text, "Naan ×3 · 780 kcal")

	require.NoError(t, f.handler.Handle(ctx, command("/servings nope 3")))
	assert.Equal(t, "That entry is not in today's log.", f.api.last(t).Text)

	require.NoError(t, f.handler.Handle(ctx, callback(keyboards.RemovePrefix+entry.ID)))
	assert.Zero(t, f.tracker.Today(ctx).Entries)
	assert.Contains(t, f.api.last(t).Text, "Nothing logged yet")

	_, err = f.tracker.AddFood(ctx, "Naan", 1, domain.Lunch)
	require.NoError(t, err)
	require.NoError(t, f.handler.Handle(ctx, command("/clear")))
	assert.Equal(t, keyboards.ClearConfirmMenu(), f.api.last(t).ReplyMarkup)
	require.NoError(t, f.handler.Handle(ctx, callback(keyboards.CallbackClearConfirm)))
	assert.Equal(t, "🗑️ Log for 2026-10-16 cleared.", f.api.last(t).Text)
	assert.Zero(t, f.tracker.Today(ctx).Entries)
}

func TestTodaySuggestAndUnknown(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.handler.Handle(ctx, command("/today")))
	assert.Contains(t, f.api.last(t).Text, "2026-10-16")
	assert.Equal(t, tgbotapi.ModeMarkdown, f.api.last(t).ParseMode)

	require.NoError(t, f.handler.Handle(ctx, command("/suggest dos")))
	assert.Equal(t, "Dishes matching \"dos\":\n• Masala dosa", f.api.last(t).Text)

	require.NoError(t, f.handler.Handle(ctx, command("/dance")))
	assert.Contains(t, f.api.last(t).Text, "Unknown command")

	require.NoError(t, f.handler.Handle(ctx, callback("bogus")))
	assert.Equal(t, "Unknown action", f.api.last(t).Text)

	require.NoError(t, f.handler.Handle(ctx, tgbotapi.Update{}))
}

func TestCallbacksAreAnswered(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.handler.Handle(context.Background(), callback(keyboards.CallbackMainMenu)))
	require.NotEmpty(t, f.api.requests)
	_, ok := f.api.requests[0].(tgbotapi.CallbackConfig)
	assert.True(t, ok)
}

func TestAddSurvivesFailedChatActions(t *testing.T) {
	f := newFixture()
	f.api.requestErr = errors.New("Too Many Requests: retry after 3")
	ctx := context.Background()

	require.NoError(t, f.handler.Handle(ctx, command("/add 1 lunch naan")))
	assert.Contains(t, f.api.last(t).Text, "Naan ×1 · 260 kcal")

	require.NoError(t, f.handler.Handle(ctx, text("masala dosa")))
	require.NoError(t, f.handler.Handle(ctx, callback("meal:dinner")))
	assert.Len(t, f.tracker.Today(ctx).Meals[domain.Dinner], 1)

	var actions int
	for _, r := range f.api.requests {
		if _, ok := r.(tgbotapi.ChatActionConfig); ok {
			actions++
		}
	}
	assert.Equal(t, 2, actions)
}
