package repository

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"
)

// BackendError はバックエンドが返したエラー。Messageは表示用にそのまま使う。
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// 注文作成（バックエンド側）。1回だけ呼ぶ、リトライしない。
type OrderGateway interface {
	CreateOrder(ctx context.Context, shopSlug string, req model.OrderRequest, idempotencyKey string) (model.OrderConfirmation, error)
}
