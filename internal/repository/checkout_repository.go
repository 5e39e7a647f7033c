package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文フロー状態の保存・取得
type CheckoutRepository interface {
	Find(ctx context.Context, key SlotKey) (model.Checkout, error)
	Save(ctx context.Context, key SlotKey, checkout model.Checkout) error
}
