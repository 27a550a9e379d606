package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/nutrition-log/internal/bot"
	"github.com/vladimiradmaev/nutrition-log/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-log/internal/config"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
	"github.com/vladimiradmaev/nutrition-log/internal/lookup"
	"github.com/vladimiradmaev/nutrition-log/internal/repository"
	"github.com/vladimiradmaev/nutrition-log/internal/services"
	"github.com/vladimiradmaev/nutrition-log/internal/store"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	if cfg.TelegramToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()
	logger.Info("Starting nutrition log bot", "store", cfg.Store.Backend, "lookup", cfg.Lookup.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := store.New(ctx, cfg.Store, logger.GetLogger())
	if err != nil {
		logger.Fatal("Failed to open store", "error", err)
	}
	defer kv.Close()

	foods, closeLookup, err := lookup.New(ctx, cfg.Lookup, cfg.GeminiAPIKey)
	if err != nil {
		logger.Fatal("Failed to create food lookup", "error", err)
	}
	defer closeLookup()

	goals := services.NewGoalService(kv)
	repo := repository.NewLogRepository(kv, foods, goals,
		repository.WithLookupTimeout(cfg.Lookup.Timeout),
		repository.WithLogger(logger.WithFields("component", "log_repository")))
	tracker := services.NewTrackerService(repo, foods)
	logger.Info("Services initialized successfully")

	var stateManager state.StateManager = state.NewManager()
	if cfg.Store.Backend == config.BackendRedis {
		redisStates, err := state.NewRedisManager(cfg.Store.Redis)
		if err != nil {
			logger.Warn("Redis unavailable for chat state, keeping it in memory", "error", err)
		} else {
			defer redisStates.Close()
			stateManager = redisStates
		}
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, tracker, stateManager)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telegramBot.Start(gctx)
	})

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Bot stopped")
}
