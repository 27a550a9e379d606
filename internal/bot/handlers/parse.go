package handlers

import (
	"strconv"
	"strings"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
)

// ParseAddArgs parses "<servings> <meal> <dish...>"
func ParseAddArgs(args string) (float64, domain.MealType, string, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return 0, "", "", apperrors.NewInvalidArgument("args", args, "usage: /add <servings> <meal> <dish>")
	}
	servings, err := parseServings(fields[0])
	if err != nil {
		return 0, "", "", err
	}
	meal, err := domain.ParseMealType(fields[1])
	if err != nil {
		return 0, "", "", err
	}
	return servings, meal, strings.Join(fields[2:], " "), nil
}

// ParseServingsArgs parses "<id> <servings>"
func ParseServingsArgs(args string) (string, float64, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, apperrors.NewInvalidArgument("args", args, "usage: /servings <id> <servings>")
	}
	servings, err := parseServings(fields[1])
	if err != nil {
		return "", 0, err
	}
	return fields[0], servings, nil
}

// ParseDishText splits free text like "2 naan" into a dish and servings.
// Without a leading number the servings default to 1.
func ParseDishText(text string) (string, float64) {
	fields := strings.Fields(text)
	if len(fields) >= 2 {
		if s, err := strconv.ParseFloat(strings.Replace(fields[0], ",", ".", 1), 64); err == nil && domain.ValidServings(s) {
			return strings.Join(fields[1:], " "), s
		}
	}
	return strings.Join(fields, " "), 1
}

// ParseGoal parses a calorie goal in kcal
func ParseGoal(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "kcal"))
	goal, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.NewInvalidArgument("calorieGoal", s, "calorie goal must be a whole number of kcal")
	}
	return goal, nil
}

func parseServings(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, apperrors.NewInvalidArgument("servings", s, "servings must be a number")
	}
	return v, nil
}
