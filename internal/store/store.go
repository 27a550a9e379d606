// Package store provides the key/JSON blob backends behind domain.Store.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladimiradmaev/nutrition-log/internal/config"
	"github.com/vladimiradmaev/nutrition-log/internal/database"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// New opens the configured backend wrapped in a FallbackStore. A backend
// that cannot be reached at startup degrades to memory right away.
func New(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (*FallbackStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	var (
		primary domain.Store
		err     error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		primary = NewMemoryStore()
	case config.BackendRedis:
		primary, err = NewRedisStore(ctx, cfg.Redis)
	case config.BackendPostgres:
		db, dbErr := database.NewPostgresDB(cfg.DB)
		if dbErr == nil {
			primary = NewPostgresStore(db)
		}
		err = dbErr
	case config.BackendSQLite:
		primary, err = NewSQLiteStore(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if err != nil {
		log.Warn("Persistence store unavailable, keeping data in memory for this session",
			"backend", cfg.Backend, "error", err)
		fb := NewFallbackStore(NewMemoryStore(), log)
		fb.degraded = true
		return fb, nil
	}

	log.Info("Persistence store ready", "backend", cfg.Backend)
	return NewFallbackStore(primary, log), nil
}
