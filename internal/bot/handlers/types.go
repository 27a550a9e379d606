package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/menus"
	"github.com/vladimiradmaev/nutrition-log/internal/interfaces"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// API is the part of *tgbotapi.BotAPI the handlers use
type API interface {
	menus.Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Tracker interfaces.TrackerServiceInterface
}

func sendText(api API, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := api.Send(msg)
	return err
}

func sendMarkdown(api API, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := api.Send(msg); err != nil {
		msg.ParseMode = ""
		_, err = api.Send(msg)
		return err
	}
	return nil
}

// sendTyping shows the typing indicator while a lookup runs
func sendTyping(api API, chatID int64) {
	if _, err := api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		logger.Warn("Failed to send chat action", "chat_id", chatID, "error", err)
	}
}
