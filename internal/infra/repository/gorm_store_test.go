package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infra "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "slots.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestCartGormStore_UpsertLoadDelete(t *testing.T) {
	ctx := context.Background()
	gdb := newGormDB(t)
	store := infra.NewCartGormStore(gdb)

	_, err := store.Load(ctx, key)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	first := []model.CartLineItem{{ID: "p1", ProductID: "p1", Name: "Mug", UnitPriceMinorUnits: 1500, Quantity: 1}}
	require.NoError(t, store.Save(ctx, key, first))

	// 同じ枠への2回目は上書き
	second := []model.CartLineItem{
		{ID: "p1", ProductID: "p1", Name: "Mug", UnitPriceMinorUnits: 1500, Quantity: 3},
		{ID: "p2", ProductID: "p2", Name: "Cup", UnitPriceMinorUnits: 800, Quantity: 1},
	}
	require.NoError(t, store.Save(ctx, key, second))

	var n int64
	require.NoError(t, gdb.Model(&model.CartSlot{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	// ショップが違えば別の枠
	other := repo.SlotKey{ShopSlug: "other", SessionID: key.SessionID}
	_, err = store.Load(ctx, other)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, store.Delete(ctx, key))
}

func TestCartGormStore_Malformed(t *testing.T) {
	gdb := newGormDB(t)
	require.NoError(t, gdb.Create(&model.CartSlot{SlotKey: key.CartKey(), Payload: "{oops", UpdatedAt: time.Now()}).Error)

	_, err := infra.NewCartGormStore(gdb).Load(context.Background(), key)
	assert.ErrorIs(t, err, repo.ErrMalformed)
}

func TestCheckoutGormRepository_UpsertFind(t *testing.T) {
	ctx := context.Background()
	gdb := newGormDB(t)
	r := infra.NewCheckoutGormRepository(gdb)

	_, err := r.Find(ctx, key)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Save(ctx, key, model.Checkout{State: model.CheckoutStateSubmitting, UpdatedAt: at}))
	done := model.Checkout{State: model.CheckoutStateConfirmed, OrderID: "o1", OrderNumber: "ORD-1", UpdatedAt: at}
	require.NoError(t, r.Save(ctx, key, done))

	got, err := r.Find(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, done, got)

	require.NoError(t, gdb.Model(&model.CheckoutSession{}).
		Where("slot_key = ?", key.CheckoutKey()).
		Update("payload", `{"order_id":"x"}`).Error)
	_, err = r.Find(ctx, key)
	assert.ErrorIs(t, err, repo.ErrMalformed)
}

func TestTxManagerGorm_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	gdb := newGormDB(t)
	carts := infra.NewCartGormStore(gdb)
	checkouts := infra.NewCheckoutGormRepository(gdb)
	tm := infra.NewTxManagerGorm(gdb)

	require.NoError(t, carts.Save(ctx, key, []model.CartLineItem{{ID: "p1", Quantity: 1}}))

	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().Delete(ctx, key); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	items, err := carts.Load(ctx, key)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	co := model.Checkout{State: model.CheckoutStateConfirmed, OrderID: "o1", UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	err = tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().Delete(ctx, key); err != nil {
			return err
		}
		return r.Checkouts().Save(ctx, key, co)
	})
	require.NoError(t, err)

	_, err = carts.Load(ctx, key)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	got, err := checkouts.Find(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "o1", got.OrderID)
}
