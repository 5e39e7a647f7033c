package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/storefront"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc, opts ...storefront.Option) *storefront.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]storefront.Option{storefront.WithHTTPClient(srv.Client())}, opts...)
	return storefront.NewClient(srv.URL+"/", time.Second, opts...)
}

func TestClient_GetShop_Success(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/store/demo", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"s1","slug":"demo","name":"Demo Shop","currency":"USD"}`)
	})

	shop, err := c.GetShop(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "s1", shop.ID)
	assert.Equal(t, "Demo Shop", shop.Name)
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Product not found"}`)
	})

	_, err := c.GetProduct(context.Background(), "demo", "p-404")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestClient_ListProducts_QueryParams(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/store/demo/products", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "12", q.Get("limit"))
		assert.Equal(t, "mug", q.Get("search"))
		assert.Equal(t, "c1", q.Get("category_id"))
		assert.Equal(t, "500", q.Get("min_price"))
		assert.Equal(t, "", q.Get("max_price"))
		assert.Equal(t, "price_asc", q.Get("sort"))
		_, _ = io.WriteString(w, `{"products":[{"id":"p1","name":"Mug","price":1500}],"pagination":{"page":2,"limit":12,"total":13,"total_pages":2}}`)
	})

	minPrice := int64(500)
	page, err := c.ListProducts(context.Background(), "demo", repo.ProductListQuery{
		Page: 2, Limit: 12, Search: "mug", CategoryID: "c1", MinPrice: &minPrice, Sort: "price_asc",
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, int64(1500), page.Products[0].Price)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestClient_ListCategories_EmptyBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	cats, err := c.ListCategories(context.Background(), "demo")
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestClient_CreateOrder_SendsBodyAndIdempotencyKey(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/store/demo/orders", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-Idempotency-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@example.com", body["customer_email"])
		items := body["items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "v1", items[0].(map[string]any)["product_id"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"o1","order_number":"ORD-1001","status":"pending","total":3000}`)
	})

	conf, err := c.CreateOrder(context.Background(), "demo", model.OrderRequest{
		CustomerDetails: model.CustomerDetails{CustomerEmail: "a@example.com"},
		Items:           []model.OrderLine{{ProductID: "v1", Quantity: 2}},
	}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "o1", conf.ID)
	assert.Equal(t, "ORD-1001", conf.OrderNumber)
}

func TestClient_CreateOrder_BackendMessageVerbatim(t *testing.T) {
	var calls int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Insufficient stock for Mug"}`)
	})

	_, err := c.CreateOrder(context.Background(), "demo", model.OrderRequest{}, "k")
	var be *repo.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusBadRequest, be.Status)
	assert.Equal(t, "Insufficient stock for Mug", be.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ErrorMessageFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"Shop closed"}`, want: "Shop closed"},
		{name: "not json", body: `<html>oops</html>`, want: "Conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := c.CreateOrder(context.Background(), "demo", model.OrderRequest{}, "k")
			var be *repo.BackendError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tc.want, be.Message)
		})
	}
}

func TestClient_BreakerOpensAfterServerErrors(t *testing.T) {
	var calls int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, storefront.WithFailureThreshold(2), storefront.WithOpenTimeout(time.Minute))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := c.GetShop(ctx, "demo")
		var be *repo.BackendError
		require.True(t, errors.As(err, &be))
	}

	_, err := c.GetShop(ctx, "demo")
	assert.ErrorIs(t, err, repo.ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	var calls int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}, storefront.WithFailureThreshold(1))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.GetProduct(ctx, "demo", "missing")
		assert.ErrorIs(t, err, repo.ErrNotFound)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
