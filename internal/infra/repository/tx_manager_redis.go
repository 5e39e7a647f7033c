package repository

import (
	"context"
	"time"

	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

type txReposRedis struct {
	carts     repo.CartStore
	checkouts repo.CheckoutRepository
}

func (r *txReposRedis) Carts() repo.CartStore              { return r.carts }
func (r *txReposRedis) Checkouts() repo.CheckoutRepository { return r.checkouts }

type TxManagerRedis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTxManagerRedis(client *redis.Client, ttl time.Duration) *TxManagerRedis {
	return &TxManagerRedis{client: client, ttl: ttl}
}

// fnの書き込みはMULTI/EXECで一度に流す。fnがエラーなら何も書かない。
func (tm *TxManagerRedis) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	_, err := tm.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r := &txReposRedis{
			carts:     NewCartRedisStore(pipe, tm.ttl),
			checkouts: NewCheckoutRedisRepository(pipe, tm.ttl),
		}
		return fn(r)
	})
	return err
}
