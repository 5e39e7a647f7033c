package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	carts     repo.CartStore
	checkouts repo.CheckoutRepository
}

func (r *txReposGorm) Carts() repo.CartStore              { return r.carts }
func (r *txReposGorm) Checkouts() repo.CheckoutRepository { return r.checkouts }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			carts:     NewCartGormStore(tx),
			checkouts: NewCheckoutGormRepository(tx),
		}
		return fn(r)
	})
}
