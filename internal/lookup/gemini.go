package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-1.5-flash"

const geminiPrompt = `You are a nutrition database for Indian and international dishes.
Give the nutrition of ONE standard serving of the dish named below.

Respond with ONLY a JSON object, no other text:
{
  "found": true,
  "dish_name": "canonical dish name",
  "nutrition": {
    "Calories (kcal)": 0, "Carbohydrates (g)": 0, "Protein (g)": 0, "Fats (g)": 0,
    "Free Sugar (g)": 0, "Fibre (g)": 0, "Sodium (mg)": 0, "Calcium (mg)": 0,
    "Iron (mg)": 0, "Vitamin C (mg)": 0, "Folate (µg)": 0
  }
}
If the text is not a recognisable dish, respond with {"found": false}.

Dish: %s`

// contentGenerator is the part of *genai.GenerativeModel the lookup uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiLookup estimates nutrition with a Gemini model. It has no catalogue,
// so ListAll is always empty.
type GeminiLookup struct {
	client *genai.Client
	model  contentGenerator
}

type geminiAnswer struct {
	Found     bool               `json:"found"`
	DishName  string             `json:"dish_name"`
	Nutrition map[string]float64 `json:"nutrition"`
}

func NewGeminiLookup(ctx context.Context, apiKey string) (*GeminiLookup, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(geminiModel)
	model.SetTemperature(0)
	return &GeminiLookup{client: client, model: model}, nil
}

func (g *GeminiLookup) Search(ctx context.Context, dishName string) (domain.LookupResult, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(geminiPrompt, dishName)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, err)
		}
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, 0, fmt.Errorf("failed to generate content: %w", err))
	}

	text := responseText(resp)
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, 0, fmt.Errorf("no JSON in model response: %q", truncate([]byte(text))))
	}

	var answer geminiAnswer
	if err := json.Unmarshal([]byte(jsonStr), &answer); err != nil {
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, 0, fmt.Errorf("failed to parse model response: %w", err))
	}
	if !answer.Found {
		return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, nil)
	}

	name := strings.TrimSpace(answer.DishName)
	if name == "" {
		name = dishName
	}
	return domain.LookupResult{
		DishName:  name,
		Nutrition: domain.RecordFromLabels(answer.Nutrition),
	}, nil
}

func (g *GeminiLookup) ListAll(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

// Close releases the Gemini client
func (g *GeminiLookup) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	return b.String()
}

// extractJSON returns the outermost {...} of s, tolerating code fences and prose
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
