package keyboards

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
)

// Callback data
const (
	CallbackToday        = "today"
	CallbackGoal         = "goal"
	CallbackClear        = "clear"
	CallbackClearConfirm = "clear_confirm"
	CallbackMainMenu     = "main_menu"
	CallbackHelp         = "help"
	CallbackCancel       = "cancel"

	MealPrefix   = "meal:"
	RemovePrefix = "remove:"
)

var mealLabels = map[domain.MealType]string{
	domain.Breakfast: "🍳 Breakfast",
	domain.Lunch:     "🍛 Lunch",
	domain.Dinner:    "🍽️ Dinner",
	domain.Snack:     "🍪 Snack",
}

// MealLabel is the button and heading text of a meal type
func MealLabel(m domain.MealType) string {
	if label, ok := mealLabels[m]; ok {
		return label
	}
	return string(m)
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Today", CallbackToday),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Goal", CallbackGoal),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Clear day", CallbackClear),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", CallbackHelp),
		),
	)
}

// MealTypeMenu asks which meal a dish belongs to
func MealTypeMenu() tgbotapi.InlineKeyboardMarkup {
	row1 := tgbotapi.NewInlineKeyboardRow()
	row2 := tgbotapi.NewInlineKeyboardRow()
	for i, m := range domain.MealTypes {
		btn := tgbotapi.NewInlineKeyboardButtonData(MealLabel(m), MealPrefix+string(m))
		if i < 2 {
			row1 = append(row1, btn)
		} else {
			row2 = append(row2, btn)
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row1,
		row2,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", CallbackCancel),
		),
	)
}

// DayMenu offers a remove button per entry
func DayMenu(entries []domain.LogEntry) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for _, e := range entries {
		label := fmt.Sprintf("❌ %s", e.DishName)
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, RemovePrefix+e.ID),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
	return keyboard
}

// ClearConfirmMenu asks before wiping the day
func ClearConfirmMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, clear", CallbackClearConfirm),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", CallbackMainMenu),
		),
	)
}

// BackMenu has a single button back to the main menu
func BackMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// ParseCallback splits prefixed callback data into its prefix and value
func ParseCallback(data string) (prefix, value string) {
	for _, p := range []string{MealPrefix, RemovePrefix} {
		if strings.HasPrefix(data, p) {
			return p, strings.TrimPrefix(data, p)
		}
	}
	return data, ""
}
