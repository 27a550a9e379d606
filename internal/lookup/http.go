package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
)

// HTTPClient talks to the nutrition API:
//
//	GET {base}/search/?dish=NAME -> {"Canonical Name": {"Calories (kcal)": 260, ...}}
//	GET {base}/foods/            -> {"foods": ["Naan", ...]}
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search resolves dishName to its canonical name and nutrition
func (c *HTTPClient) Search(ctx context.Context, dishName string) (domain.LookupResult, error) {
	reqURL, err := url.Parse(c.baseURL + "/search/")
	if err != nil {
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, 0, fmt.Errorf("failed to parse base URL: %w", err))
	}
	params := reqURL.Query()
	params.Set("dish", dishName)
	reqURL.RawQuery = params.Encode()

	body, status, err := c.get(ctx, reqURL.String())
	if err != nil {
		if isTimeout(ctx, err) {
			return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, err)
		}
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, 0, err)
	}

	switch {
	case status == http.StatusNotFound:
		return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, nil)
	case status != http.StatusOK:
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, status, fmt.Errorf("unexpected response: %s", truncate(body)))
	}

	var payload map[string]map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.LookupResult{}, apperrors.NewServiceError(dishName, status, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if len(payload) == 0 {
		return domain.LookupResult{}, apperrors.NewDishNotFound(dishName, nil)
	}
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)

	return domain.LookupResult{
		DishName:  names[0],
		Nutrition: domain.RecordFromLabels(numericColumns(payload[names[0]])),
	}, nil
}

// ListAll returns every dish name the API knows
func (c *HTTPClient) ListAll(ctx context.Context) ([]string, error) {
	body, status, err := c.get(ctx, c.baseURL+"/foods/")
	if err != nil {
		return nil, apperrors.NewServiceError("", 0, err)
	}
	if status != http.StatusOK {
		return nil, apperrors.NewServiceError("", status, fmt.Errorf("unexpected response: %s", truncate(body)))
	}

	var payload struct {
		Foods []string `json:"foods"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewServiceError("", status, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if payload.Foods == nil {
		payload.Foods = []string{}
	}
	return payload.Foods, nil
}

func (c *HTTPClient) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// numericColumns drops non-numeric columns such as the dish name itself
func numericColumns(columns map[string]interface{}) map[string]float64 {
	out := make(map[string]float64, len(columns))
	for k, v := range columns {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
