package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// バックエンドに繋がらない（サーキットブレーカーが開いている）
var ErrUnavailable = errors.New("backend unavailable")

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

// バックエンドの公開ストアAPIを読むだけの約束。
type CatalogReader interface {
	GetShop(ctx context.Context, slug string) (model.Shop, error)
	ListProducts(ctx context.Context, slug string, q ProductListQuery) (model.ProductPage, error)
	GetProduct(ctx context.Context, slug string, productID string) (model.Product, error)
	ListCategories(ctx context.Context, slug string) ([]model.Category, error)
}
