package lookup

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

const (
	minSuggestQuery = 2
	maxSuggestions  = 10
)

// Suggest returns up to ten known dishes containing query. Lookup failures
// yield no suggestions rather than an error.
func Suggest(ctx context.Context, lookup domain.FoodLookup, query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestQuery {
		return []string{}
	}

	all, err := lookup.ListAll(ctx)
	if err != nil {
		logger.Warn("Error getting suggestions", "query", query, "error", err)
		return []string{}
	}

	needle := strings.ToLower(query)
	out := []string{}
	for _, name := range all {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}
