package utils

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/UnicornXOS/bl1nk-web-portal/config"
)

var redisClient *redis.Client

func SetRedis(client *redis.Client) {
	redisClient = client
}

// GetRedis returns the shared client, or nil when Redis is not configured.
func GetRedis() *redis.Client {
	return redisClient
}

// OpenRedis connects and pings. It returns nil, nil when REDIS_ADDR is empty.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
