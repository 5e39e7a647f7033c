package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"storefront/internal/config"
)

// ConnectRedis はredisクライアントを作り、PINGで疎通確認する。
func ConnectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
