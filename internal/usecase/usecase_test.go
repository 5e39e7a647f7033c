package usecase_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	infra "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// Mocks
// =====================

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) GetShop(ctx context.Context, slug string) (model.Shop, error) {
	args := m.Called(ctx, slug)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *CatalogMock) ListProducts(ctx context.Context, slug string, q repo.ProductListQuery) (model.ProductPage, error) {
	args := m.Called(ctx, slug, q)
	p, _ := args.Get(0).(model.ProductPage)
	return p, args.Error(1)
}

func (m *CatalogMock) GetProduct(ctx context.Context, slug string, productID string) (model.Product, error) {
	args := m.Called(ctx, slug, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogMock) ListCategories(ctx context.Context, slug string) ([]model.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).([]model.Category)
	return c, args.Error(1)
}

type OrderGatewayMock struct{ mock.Mock }

func (m *OrderGatewayMock) CreateOrder(ctx context.Context, shopSlug string, req model.OrderRequest, idempotencyKey string) (model.OrderConfirmation, error) {
	args := m.Called(ctx, shopSlug, req, idempotencyKey)
	c, _ := args.Get(0).(model.OrderConfirmation)
	return c, args.Error(1)
}

// =====================
// Fixtures
// =====================

var testKey = repo.SlotKey{ShopSlug: "demo", SessionID: "sess-1"}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	mr        *miniredis.Miniredis
	client    *redis.Client
	carts     repo.CartStore
	checkouts repo.CheckoutRepository
	catalog   *CatalogMock
	orders    *OrderGatewayMock
	clock     *fakeClock
	cart      *usecase.CartUsecase
	checkout  *usecase.CheckoutUsecase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ttl := time.Hour
	e := &env{
		mr:        mr,
		client:    client,
		carts:     infra.NewCartRedisStore(client, ttl),
		checkouts: infra.NewCheckoutRedisRepository(client, ttl),
		catalog:   new(CatalogMock),
		orders:    new(OrderGatewayMock),
		clock:     &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	tx := infra.NewTxManagerRedis(client, ttl)

	e.cart = usecase.NewCartUsecase(e.catalog, e.carts, e.checkouts, tx, zap.NewNop(), e.clock.Now)
	e.checkout = usecase.NewCheckoutUsecase(e.orders, validator.NewCheckoutValidator(), e.carts, e.checkouts, tx, zap.NewNop(), e.clock.Now)
	return e
}

func int64Ptr(v int64) *int64 { return &v }

func simpleProduct(id string, price int64, stock int64) model.Product {
	return model.Product{
		ID:       id,
		Name:     "Mug " + id,
		Price:    price,
		Stock:    stock,
		IsActive: true,
		Images:   []model.Media{{ID: "m1", URL: "https://cdn.example.com/" + id + ".png"}},
	}
}

// Color(red/blue) × Size(m/l) の商品
func shirtProduct() model.Product {
	return model.Product{
		ID:       "shirt",
		Name:     "Shirt",
		Price:    2000,
		Stock:    100,
		IsActive: true,
		Options: []model.ProductOption{
			{ID: "color", Name: "Color", Values: []model.ProductOptionValue{{ID: "red", Value: "Red"}, {ID: "blue", Value: "Blue"}}},
			{ID: "size", Name: "Size", Values: []model.ProductOptionValue{{ID: "m", Value: "M"}, {ID: "l", Value: "L"}}},
		},
		Variants: []model.ProductVariant{
			{
				ID: "shirt-red-m", SKU: "SH-R-M", Price: int64Ptr(2500), Stock: 3, IsActive: true,
				OptionValues: []model.VariantOptionValue{
					{OptionID: "color", OptionName: "Color", ValueID: "red", Value: "Red"},
					{OptionID: "size", OptionName: "Size", ValueID: "m", Value: "M"},
				},
			},
			{
				ID: "shirt-blue-l", SKU: "SH-B-L", Stock: 5, IsActive: false,
				OptionValues: []model.VariantOptionValue{
					{OptionID: "color", OptionName: "Color", ValueID: "blue", Value: "Blue"},
					{OptionID: "size", OptionName: "Size", ValueID: "l", Value: "L"},
				},
			},
		},
	}
}

func customer() model.CustomerDetails {
	return model.CustomerDetails{
		CustomerEmail:   "jane@example.com",
		CustomerName:    "Jane Doe",
		ShippingAddress: "1 Main St",
		ShippingCity:    "Springfield",
		ShippingZip:     "12345",
	}
}

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %T", err)
	assert.Equal(t, status, he.Status)
	if msg != "" {
		assert.Equal(t, msg, he.Message)
	}
}
