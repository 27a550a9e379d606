package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/nutrition-log/internal/config"
	"github.com/vladimiradmaev/nutrition-log/internal/database/migrations"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// KVEntry is one persisted JSON blob
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table created by the SQL migrations
func (KVEntry) TableName() string {
	return "kv_entries"
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host, "database", cfg.DBName)
	return db, nil
}
