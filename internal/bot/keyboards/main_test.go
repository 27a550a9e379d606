package keyboards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
)

func TestMealTypeMenu(t *testing.T) {
	kb := MealTypeMenu()
	require.Len(t, kb.InlineKeyboard, 3)

	var data []string
	for _, row := range kb.InlineKeyboard[:2] {
		for _, btn := range row {
			data = append(data, *btn.CallbackData)
		}
	}
	assert.Equal(t, []string{"meal:breakfast", "meal:lunch", "meal:dinner", "meal:snack"}, data)
	assert.Equal(t, CallbackCancel, *kb.InlineKeyboard[2][0].CallbackData)
}

func TestDayMenuCallbackDataFitsTelegramLimit(t *testing.T) {
	e := domain.NewLogEntry("Naan", 1, domain.Lunch, domain.NutritionRecord{}, time.Now())
	kb := DayMenu([]domain.LogEntry{e})
	require.Len(t, kb.InlineKeyboard, 2)

	data := *kb.InlineKeyboard[0][0].CallbackData
	assert.LessOrEqual(t, len(data), 64)

	prefix, id := ParseCallback(data)
	assert.Equal(t, RemovePrefix, prefix)
	assert.Equal(t, e.ID, id)
}

func TestParseCallback(t *testing.T) {
	prefix, value := ParseCallback("meal:snack")
	assert.Equal(t, MealPrefix, prefix)
	assert.Equal(t, "snack", value)

	prefix, value = ParseCallback(CallbackToday)
	assert.Equal(t, CallbackToday, prefix)
	assert.Empty(t, value)
}

func TestMealLabel(t *testing.T) {
	assert.Equal(t, "🍪 Snack", MealLabel(domain.Snack))
	assert.Equal(t, "brunch", MealLabel(domain.MealType("brunch")))
}
