package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

// redis.Cmdable を持つので、TxPipelined の中でも同じ実装を使える。
type CartRedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCartRedisStore(client redis.Cmdable, ttl time.Duration) *CartRedisStore {
	return &CartRedisStore{client: client, ttl: ttl}
}

func (r *CartRedisStore) Load(ctx context.Context, key repo.SlotKey) ([]model.CartLineItem, error) {
	data, err := r.client.Get(ctx, key.CartKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeItems(data)
}

// 書き込みのたびにTTLを延ばす
func (r *CartRedisStore) Save(ctx context.Context, key repo.SlotKey, items []model.CartLineItem) error {
	payload, err := encodeItems(items)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key.CartKey(), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *CartRedisStore) Delete(ctx context.Context, key repo.SlotKey) error {
	if err := r.client.Del(ctx, key.CartKey()).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
