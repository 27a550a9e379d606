package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/handlers"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-log/internal/interfaces"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

var commands = []tgbotapi.BotCommand{
	{Command: "today", Description: "Show today's log"},
	{Command: "add", Description: "<servings> <meal> <dish>"},
	{Command: "remove", Description: "<id> remove an entry"},
	{Command: "servings", Description: "<id> <n> change servings"},
	{Command: "goal", Description: "Set the daily calorie goal"},
	{Command: "suggest", Description: "<text> find known dishes"},
	{Command: "clear", Description: "Clear today's log"},
	{Command: "help", Description: "How to use the bot"},
}

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
}

func NewBot(token string, tracker interfaces.TrackerServiceInterface, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "account", api.Self.UserName)

	if _, err := api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	deps := handlers.Dependencies{Tracker: tracker}
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
	}, nil
}

// Start polls for updates until ctx is done
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil && update.Message.From != nil {
				logger.Debug("Received message", "user_id", update.Message.From.ID, "text", update.Message.Text)
			}
			if err := b.handler.Handle(ctx, update); err != nil {
				logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}
