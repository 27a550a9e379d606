package menus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/nutrition-log/internal/aggregation"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/keyboards"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
)

// Sender is the part of *tgbotapi.BotAPI used to deliver messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const HelpText = `*Daily nutrition log*

Send a dish name (optionally starting with servings, e.g. "2 naan") and pick the meal.

/add <servings> <meal> <dish> - log a dish directly
/remove <id> - remove an entry
/servings <id> <n> - change servings of an entry
/goal <kcal> - set the daily calorie goal
/today - show today's log
/clear - clear today's log
/suggest <text> - find known dishes
/help - show this message

Meals: breakfast, lunch, dinner, snack`

var statusIcons = map[aggregation.Status]string{
	aggregation.StatusLow:      "🔵",
	aggregation.StatusModerate: "🟡",
	aggregation.StatusGood:     "🟢",
	aggregation.StatusExceeded: "🔴",
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"`", "\\`",
)

// EscapeMarkdown escapes the characters legacy Markdown treats as markup
func EscapeMarkdown(s string) string {
	return strings.ToValidUTF8(markdownEscaper.Replace(s), "")
}

// FormatServings renders servings without trailing zeros
func FormatServings(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// FormatEntry renders one entry as a bullet line followed by its id
func FormatEntry(e domain.LogEntry) string {
	return fmt.Sprintf("• %s ×%s · %s kcal\n  `%s`",
		EscapeMarkdown(e.DishName),
		FormatServings(e.Servings),
		aggregation.FormatCalories(e.Calories),
		e.ID)
}

// FormatSummary renders a day as a Markdown message
func FormatSummary(s aggregation.Summary) string {
	var b strings.Builder
	p := s.Progress

	fmt.Fprintf(&b, "📅 *%s*\n\n", s.Date)
	fmt.Fprintf(&b, "%s %s / %s kcal (%s)\n",
		statusIcons[p.Status],
		aggregation.FormatCalories(p.TotalCalories),
		aggregation.FormatCalories(float64(p.CalorieGoal)),
		aggregation.FormatPercent(p.DisplayPercentage()))
	if p.Exceeded {
		over := p.TotalCalories - float64(p.CalorieGoal)
		fmt.Fprintf(&b, "⚠️ Over the goal by %s kcal\n", aggregation.FormatCalories(over))
	} else {
		fmt.Fprintf(&b, "Remaining: %s kcal\n", aggregation.FormatCalories(p.Remaining))
	}
	fmt.Fprintf(&b, "Status: %s\n", p.Status)

	if s.Entries == 0 {
		b.WriteString("\nNothing logged yet. Send a dish name to add it.")
		return b.String()
	}

	fmt.Fprintf(&b, "\nMacros: carbs %s · protein %s · fats %s\n",
		aggregation.FormatPercent(s.Macros.Carbs),
		aggregation.FormatPercent(s.Macros.Protein),
		aggregation.FormatPercent(s.Macros.Fats))
	fmt.Fprintf(&b, "Carbs %s · Protein %s · Fats %s · Fibre %s · Sugar %s · Sodium %s\n",
		aggregation.FormatNutrient(s.Totals.Carbohydrates, "g"),
		aggregation.FormatNutrient(s.Totals.Protein, "g"),
		aggregation.FormatNutrient(s.Totals.Fats, "g"),
		aggregation.FormatNutrient(s.Totals.Fiber, "g"),
		aggregation.FormatNutrient(s.Totals.FreeSugar, "g"),
		aggregation.FormatNutrient(s.Totals.Sodium, "mg"))

	for _, meal := range domain.MealTypes {
		entries := s.Meals[meal]
		if len(entries) == 0 {
			continue
		}
		kcal := 0.0
		for _, e := range entries {
			kcal += e.Calories
		}
		fmt.Fprintf(&b, "\n*%s* (%s kcal)\n", keyboards.MealLabel(meal), aggregation.FormatCalories(kcal))
		for _, e := range entries {
			b.WriteString(FormatEntry(e))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAdded confirms a new entry
func FormatAdded(e domain.LogEntry) string {
	return fmt.Sprintf("✅ Added to %s:\n%s", keyboards.MealLabel(e.MealType), FormatEntry(e))
}

// FormatSuggestions lists dish suggestions for query
func FormatSuggestions(query string, names []string) string {
	if len(names) == 0 {
		return fmt.Sprintf("No dishes match %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dishes matching %q:\n", query)
	for _, n := range names {
		fmt.Fprintf(&b, "• %s\n", n)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ErrorText turns a tracker error into a message for the user
func ErrorText(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrDishNotFound):
		return fmt.Sprintf("🤷 Could not find %q. Try /suggest to see known dishes.", apperrors.Dish(err))
	case errors.Is(err, apperrors.ErrServiceError):
		if status := apperrors.StatusCode(err); status != 0 {
			return fmt.Sprintf("⚠️ The food service returned an error (%d). Please try again later.", status)
		}
		return "⚠️ The food service is unavailable. Please try again later."
	case errors.Is(err, apperrors.ErrEntryNotFound):
		return "That entry is not in today's log."
	case errors.Is(err, apperrors.ErrInvalidArgument):
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return "❗ " + appErr.Message
		}
	}
	return "Something went wrong. Please try again."
}

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	text := `🥗 *Nutrition log*

Send me what you ate, e.g. "masala dosa" or "2 naan", and I will look up its nutrition and add it to today's log.

Choose an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendSummary sends a day summary with remove buttons for its entries
func SendSummary(api Sender, chatID int64, s aggregation.Summary) error {
	var entries []domain.LogEntry
	for _, meal := range domain.MealTypes {
		entries = append(entries, s.Meals[meal]...)
	}

	msg := tgbotapi.NewMessage(chatID, FormatSummary(s))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.DayMenu(entries)
	if _, err := api.Send(msg); err != nil {
		// Retry without Markdown if parsing fails
		msg.ParseMode = ""
		_, err = api.Send(msg)
		return err
	}
	return nil
}
