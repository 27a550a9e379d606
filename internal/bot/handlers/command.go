package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api API, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, userID int64) error {
	logger.Info("Handling command", "command", message.Command(), "user_id", userID)
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(userID, state.None)
		h.stateManager.ClearTempData(userID)
		return menus.SendMainMenu(h.api, chatID)
	case "help":
		return sendMarkdown(h.api, chatID, menus.HelpText, keyboards.BackMenu())
	case "add":
		return h.handleAdd(ctx, chatID, args)
	case "remove":
		return h.handleRemove(ctx, chatID, args)
	case "servings":
		return h.handleServings(ctx, chatID, args)
	case "goal":
		return h.handleGoal(ctx, chatID, userID, args)
	case "today":
		return menus.SendSummary(h.api, chatID, h.deps.Tracker.Today(ctx))
	case "clear":
		return sendText(h.api, chatID, "Clear everything logged today?", keyboards.ClearConfirmMenu())
	case "suggest":
		return h.handleSuggest(ctx, chatID, args)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

// handleAdd handles /add <servings> <meal> <dish>
func (h *CommandHandler) handleAdd(ctx context.Context, chatID int64, args string) error {
	servings, meal, dish, err := ParseAddArgs(args)
	if err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}

	sendTyping(h.api, chatID)
	entry, err := h.deps.Tracker.AddFood(ctx, dish, servings, meal)
	if err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}
	return sendMarkdown(h.api, chatID, menus.FormatAdded(entry), keyboards.MainMenu())
}

// handleRemove handles /remove <id>
func (h *CommandHandler) handleRemove(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return sendText(h.api, chatID, "Usage: /remove <id>", nil)
	}
	if err := h.deps.Tracker.RemoveFood(ctx, args); err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}
	return menus.SendSummary(h.api, chatID, h.deps.Tracker.Today(ctx))
}

// handleServings handles /servings <id> <n>
func (h *CommandHandler) handleServings(ctx context.Context, chatID int64, args string) error {
	id, servings, err := ParseServingsArgs(args)
	if err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}
	entry, err := h.deps.Tracker.UpdateServings(ctx, id, servings)
	if err != nil {
		return sendText(h.api, chatID, menus.ErrorText(err), nil)
	}
	return sendMarkdown(h.api, chatID, "✏️ Updated:\n"+menus.FormatEntry(entry), keyboards.MainMenu())
}

// handleGoal sets the goal from the arguments, or asks for it
func (h *CommandHandler) handleGoal(ctx context.Context, chatID, userID int64, args string) error {
	if args == "" {
		return promptGoal(ctx, h.api, h.deps, h.stateManager, chatID, userID)
	}
	return applyGoal(ctx, h.api, h.deps, h.stateManager, chatID, userID, args)
}

// handleSuggest handles /suggest <query>
func (h *CommandHandler) handleSuggest(ctx context.Context, chatID int64, query string) error {
	if query == "" {
		return sendText(h.api, chatID, "Usage: /suggest <part of a dish name>", nil)
	}
	names := h.deps.Tracker.Suggest(ctx, query)
	return sendText(h.api, chatID, menus.FormatSuggestions(query, names), nil)
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return sendText(h.api, chatID, "Unknown command. Use /help to see the available commands.", nil)
}
