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

type CheckoutRedisRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCheckoutRedisRepository(client redis.Cmdable, ttl time.Duration) *CheckoutRedisRepository {
	return &CheckoutRedisRepository{client: client, ttl: ttl}
}

func (r *CheckoutRedisRepository) Find(ctx context.Context, key repo.SlotKey) (model.Checkout, error) {
	data, err := r.client.Get(ctx, key.CheckoutKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Checkout{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Checkout{}, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeCheckout(data)
}

func (r *CheckoutRedisRepository) Save(ctx context.Context, key repo.SlotKey, checkout model.Checkout) error {
	payload, err := encodeCheckout(checkout)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key.CheckoutKey(), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
