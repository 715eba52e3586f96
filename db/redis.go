package db

import (
	"context"
	"finance-tracker-api/config"
	"finance-tracker-api/logger"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes and returns a new Redis client used for
// cache-aside reads of per-user category lists.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	redisAddr := fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping Redis")
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Log.WithField("address", redisAddr).Info("Redis connection established successfully")
	return rdb, nil
}
