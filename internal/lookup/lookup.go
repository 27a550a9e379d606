// Package lookup implements the food lookup collaborators: the nutrition API
// client, a Gemini-backed estimator, a static catalogue and a caching layer.
package lookup

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/nutrition-log/internal/config"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// New builds the configured provider behind a CachedLookup
func New(ctx context.Context, cfg config.LookupConfig, geminiAPIKey string) (*CachedLookup, func() error, error) {
	closeFn := func() error { return nil }

	switch cfg.Provider {
	case config.ProviderHTTP:
		logger.Info("Using nutrition API lookup", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)
		return NewCachedLookup(NewHTTPClient(cfg.BaseURL, cfg.Timeout), cfg.CacheSize, cfg.CacheTTL, WithFlightTimeout(cfg.Timeout)), closeFn, nil
	case config.ProviderGemini:
		g, err := NewGeminiLookup(ctx, geminiAPIKey)
		if err != nil {
			return nil, closeFn, err
		}
		logger.Info("Using Gemini lookup", "model", geminiModel)
		return NewCachedLookup(g, cfg.CacheSize, cfg.CacheTTL, WithFlightTimeout(cfg.Timeout)), g.Close, nil
	default:
		return nil, closeFn, fmt.Errorf("unknown lookup provider %q", cfg.Provider)
	}
}
