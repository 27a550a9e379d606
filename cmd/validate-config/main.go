package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/nutrition-log/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}
	if cfg.TelegramToken == "" {
		fmt.Println("❌ TELEGRAM_BOT_TOKEN is not set")
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Store Backend: %s\n", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case config.BackendRedis:
		fmt.Printf("  - Redis: %s (db %d, prefix %q)\n", cfg.Store.Redis.Addr(), cfg.Store.Redis.DB, cfg.Store.Redis.Prefix)
	case config.BackendPostgres:
		fmt.Printf("  - DB: %s@%s:%s/%s\n", cfg.Store.DB.User, cfg.Store.DB.Host, cfg.Store.DB.Port, cfg.Store.DB.DBName)
	case config.BackendSQLite:
		fmt.Printf("  - SQLite Path: %s\n", cfg.Store.SQLite.Path)
	}
	fmt.Printf("  - Lookup Provider: %s\n", cfg.Lookup.Provider)
	if cfg.Lookup.Provider == config.ProviderGemini {
		fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	} else {
		fmt.Printf("  - Nutrition API: %s\n", cfg.Lookup.BaseURL)
	}
	fmt.Printf("  - Lookup Timeout: %s\n", cfg.Lookup.Timeout)
	fmt.Printf("  - Lookup Cache: %d entries, TTL %s\n", cfg.Lookup.CacheSize, cfg.Lookup.CacheTTL)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
