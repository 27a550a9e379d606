package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api API, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, userID int64) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	chatID := query.Message.Chat.ID
	prefix, value := keyboards.ParseCallback(query.Data)

	switch prefix {
	case keyboards.MealPrefix:
		return h.handleMeal(ctx, chatID, userID, value)
	case keyboards.RemovePrefix:
		return h.handleRemove(ctx, chatID, value)
	case keyboards.CallbackToday:
		return menus.SendSummary(h.api, chatID, h.deps.Tracker.Today(ctx))
	case keyboards.CallbackGoal:
		return promptGoal(ctx, h.api, h.deps, h.stateManager, chatID, userID)
	case keyboards.CallbackClear:
		return sendText(h.api, chatID, "Clear everything logged today?", keyboards.ClearConfirmMenu())
	case keyboards.CallbackClearConfirm:
		return h.handleClearConfirm(ctx, chatID)
	case keyboards.CallbackHelp:
		return sendMarkdown(h.api, chatID, menus.HelpText, keyboards.BackMenu())
	case keyboards.CallbackMainMenu, keyboards.CallbackCancel:
		return h.handleMainMenu(chatID, userID)
	default:
		return h.handleUnknownCallback(chatID)
	}
}

// handleMeal logs the pending dish under the chosen meal
func (h *CallbackHandler) handleMeal(ctx context.Context, chatID, userID int64, value string) error {
	dish, servings, ok := state.PendingDish(h.stateManager, userID)
	if !ok || h.stateManager.GetUserState(userID) != state.WaitingForMeal {
		return sendText(h.api, chatID, "Send a dish name first.", nil)
	}
	meal, err := domain.ParseMealType(value)
	if err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}

	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.ClearTempData(userID)

	sendTyping(h.api, chatID)
	entry, err := h.deps.Tracker.AddFood(ctx, dish, servings, meal)
	if err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), keyboards.MainMenu())
	}
	return sendMarkdown(h.api, chatID, menus.FormatAdded(entry), keyboards.MainMenu())
}

// handleRemove removes an entry and shows the updated day
func (h *CallbackHandler) handleRemove(ctx context.Context, chatID int64, id string) error {
	if err := h.deps.Tracker.RemoveFood(ctx, id); err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}
	return menus.SendSummary(h.api, chatID, h.deps.Tracker.Today(ctx))
}

func (h *CallbackHandler) handleClearConfirm(ctx context.Context, chatID int64) error {
	if err := h.deps.Tracker.ClearDay(ctx); err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}
	summary := h.deps.Tracker.Today(ctx)
	text := fmt.Sprintf("🗑️ Log for %s cleared.", summary.Date)
	return sendText(h.api, chatID, text, keyboards.MainMenu())
}

// handleMainMenu handles main menu callback
func (h *CallbackHandler) handleMainMenu(chatID, userID int64) error {
	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.ClearTempData(userID)
	return menus.SendMainMenu(h.api, chatID)
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	return sendText(h.api, chatID, "Unknown action", nil)
}
