package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/nutrition-log/internal/config"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// stateTTL lets abandoned conversations expire
const stateTTL = 24 * time.Hour

// RedisManager manages user states using Redis
type RedisManager struct {
	client *redis.Client
	prefix string
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(cfg config.RedisConfig) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisManagerFromClient(client, cfg.Prefix), nil
}

func NewRedisManagerFromClient(client *redis.Client, prefix string) *RedisManager {
	return &RedisManager{client: client, prefix: prefix}
}

func (m *RedisManager) key(userID int64, kind string) string {
	return fmt.Sprintf("%suser:%d:%s", m.prefix, userID, kind)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx := context.Background()
	if err := m.client.Set(ctx, m.key(userID, "state"), state, stateTTL).Err(); err != nil {
		logger.Warn("Failed to save user state", "user_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx := context.Background()
	result := m.client.Get(ctx, m.key(userID, "state"))
	if result.Err() == redis.Nil {
		return None
	}
	if result.Err() != nil {
		logger.Warn("Failed to read user state", "user_id", userID, "error", result.Err())
		return None
	}
	return result.Val()
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	m.client.Del(context.Background(), m.key(userID, "state"))
}

// SetTempData sets temporary data for a user
func (m *RedisManager) SetTempData(userID int64, key string, value interface{}) {
	tempData := m.getTempDataMap(userID)
	if tempData == nil {
		tempData = make(map[string]interface{})
	}
	tempData[key] = value
	m.saveTempDataMap(userID, tempData)
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (interface{}, bool) {
	tempData := m.getTempDataMap(userID)
	if tempData == nil {
		return nil, false
	}
	value, exists := tempData[key]
	return value, exists
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	m.client.Del(context.Background(), m.key(userID, "temp"))
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}

func (m *RedisManager) getTempDataMap(userID int64) map[string]interface{} {
	ctx := context.Background()
	result := m.client.Get(ctx, m.key(userID, "temp"))
	if result.Err() != nil {
		return nil
	}

	var tempData map[string]interface{}
	if err := json.Unmarshal([]byte(result.Val()), &tempData); err != nil {
		return nil
	}
	return tempData
}

func (m *RedisManager) saveTempDataMap(userID int64, tempData map[string]interface{}) {
	data, err := json.Marshal(tempData)
	if err != nil {
		return
	}
	if err := m.client.Set(context.Background(), m.key(userID, "temp"), data, stateTTL).Err(); err != nil {
		logger.Warn("Failed to save temp data", "user_id", userID, "error", err)
	}
}
