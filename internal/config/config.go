package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	Store         StoreConfig
	Lookup        LookupConfig
	Logger        LoggerConfig
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Backend string // memory, redis, postgres or sqlite
	Redis   RedisConfig
	DB      DBConfig
	SQLite  SQLiteConfig
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration // 0 keeps keys forever
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type SQLiteConfig struct {
	Path string
}

// LookupConfig configures the food lookup provider
type LookupConfig struct {
	Provider  string // http or gemini
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	ProviderHTTP   = "http"
	ProviderGemini = "gemini"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	redisDB, err := getIntOrDefault("REDIS_DB", 0)
	collect(err)
	redisTTL, err := getDurationOrDefault("REDIS_TTL", 0)
	collect(err)
	timeout, err := getDurationOrDefault("LOOKUP_TIMEOUT", 10*time.Second)
	collect(err)
	cacheSize, err := getIntOrDefault("LOOKUP_CACHE_SIZE", 256)
	collect(err)
	cacheTTL, err := getDurationOrDefault("LOOKUP_CACHE_TTL", time.Hour)
	collect(err)

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		Store: StoreConfig{
			Backend: getEnvOrDefault("STORE_BACKEND", BackendMemory),
			Redis: RedisConfig{
				Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
				Port:     getEnvOrDefault("REDIS_PORT", "6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       redisDB,
				Prefix:   getEnvOrDefault("REDIS_PREFIX", "nutrition:"),
				TTL:      redisTTL,
			},
			DB: DBConfig{
				Host:     getEnvOrDefault("DB_HOST", "localhost"),
				Port:     getEnvOrDefault("DB_PORT", "5432"),
				User:     getEnvOrDefault("DB_USER", "postgres"),
				Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrDefault("DB_NAME", "nutrition_log"),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "data/nutrition.db"),
			},
		},
		Lookup: LookupConfig{
			Provider:  getEnvOrDefault("LOOKUP_PROVIDER", ProviderHTTP),
			BaseURL:   getEnvOrDefault("NUTRITION_API_URL", "http://127.0.0.1:8000/api"),
			Timeout:   timeout,
			CacheSize: cacheSize,
			CacheTTL:  cacheTTL,
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	collect(cfg.Validate())
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND: unknown backend %q", c.Store.Backend))
	}
	if c.Store.Backend == BackendSQLite && c.Store.SQLite.Path == "" {
		errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
	}

	switch c.Lookup.Provider {
	case ProviderHTTP:
		if u, err := url.Parse(c.Lookup.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("NUTRITION_API_URL: invalid URL %q", c.Lookup.BaseURL))
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini lookup provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("LOOKUP_PROVIDER: unknown provider %q", c.Lookup.Provider))
	}

	if c.Lookup.Timeout <= 0 {
		errs = append(errs, errors.New("LOOKUP_TIMEOUT must be positive"))
	}
	if c.Lookup.CacheSize < 0 {
		errs = append(errs, errors.New("LOOKUP_CACHE_SIZE must not be negative"))
	}
	if c.Store.Redis.TTL < 0 {
		errs = append(errs, errors.New("REDIS_TTL must not be negative"))
	}

	switch c.Logger.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", c.Logger.Format))
	}

	return errors.Join(errs...)
}

// PostgresDSN builds the connection string for gorm's postgres driver
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

// Addr is the host:port of the Redis server
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
