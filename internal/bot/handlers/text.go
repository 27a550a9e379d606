package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
)

// TextHandler handles text messages
type TextHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api API, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, userID int64) error {
	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForGoal:
		return applyGoal(ctx, h.api, h.deps, h.stateManager, message.Chat.ID, userID, message.Text)
	default:
		return h.handleDish(message.Chat.ID, userID, message.Text)
	}
}

// handleDish remembers the dish and asks which meal it belongs to
func (h *TextHandler) handleDish(chatID, userID int64, text string) error {
	dish, servings := ParseDishText(text)
	if dish == "" {
		return nil
	}

	h.stateManager.ClearTempData(userID)
	h.stateManager.SetTempData(userID, state.KeyDish, dish)
	h.stateManager.SetTempData(userID, state.KeyServings, servings)
	h.stateManager.SetUserState(userID, state.WaitingForMeal)

	text = fmt.Sprintf("Which meal is *%s* ×%s for?", menus.EscapeMarkdown(dish), menus.FormatServings(servings))
	return sendMarkdown(h.api, chatID, text, keyboards.MealTypeMenu())
}

func promptGoal(ctx context.Context, api API, deps Dependencies, sm state.StateManager, chatID, userID int64) error {
	sm.SetUserState(userID, state.WaitingForGoal)
	current := deps.Tracker.Today(ctx).Progress.CalorieGoal
	text := fmt.Sprintf("🎯 Your daily goal is %d kcal. Send a new goal in kcal:", current)
	return sendText(api, chatID, text, keyboards.BackMenu())
}

func applyGoal(ctx context.Context, api API, deps Dependencies, sm state.StateManager, chatID, userID int64, text string) error {
	goal, err := ParseGoal(text)
	if err == nil {
		err = deps.Tracker.SetGoal(ctx, goal)
	}
	if err != nil {
		return sendText(api, chatID, menus.ErrorText(err), nil)
	}

	sm.SetUserState(userID, state.None)
	return sendText(api, chatID, fmt.Sprintf("🎯 Daily goal set to %d kcal.", goal), keyboards.MainMenu())
}
