package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api API, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	return &UpdateHandler{
		callbackHandler: NewCallbackHandler(api, deps, stateManager),
		commandHandler:  NewCommandHandler(api, deps, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message == nil || update.CallbackQuery.From == nil {
			return nil
		}
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, update.CallbackQuery.From.ID)
	}

	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	if message.IsCommand() {
		return h.commandHandler.Handle(ctx, message, message.From.ID)
	}
	if message.Text != "" {
		return h.textHandler.Handle(ctx, message, message.From.ID)
	}
	return nil
}
