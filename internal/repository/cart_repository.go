package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// 保存データが読めない（壊れたJSONなど）
	ErrMalformed = errors.New("malformed payload")
)

// SlotKey は1ショップ・1セッションの保存枠を指す。
type SlotKey struct {
	ShopSlug  string
	SessionID string
}

func (k SlotKey) CartKey() string {
	return "cart:" + k.ShopSlug + ":" + k.SessionID
}

func (k SlotKey) CheckoutKey() string {
	return "checkout:" + k.ShopSlug + ":" + k.SessionID
}

// カートの明細リストを保存・取得する窓口
type CartStore interface {
	// 無ければ ErrNotFound、読めなければ ErrMalformed
	Load(ctx context.Context, key SlotKey) ([]model.CartLineItem, error)
	Save(ctx context.Context, key SlotKey, items []model.CartLineItem) error
	Delete(ctx context.Context, key SlotKey) error
}
