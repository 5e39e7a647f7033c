package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 4 << 20

// Client はショップバックエンドの公開ストアAPIを呼ぶ。
// カタログ読み取りはブレーカー越し、注文作成は1回だけ素で呼ぶ。
type Client struct {
	baseURL          string
	http             *http.Client
	readTimeout      time.Duration
	failureThreshold uint32
	openTimeout      time.Duration
	breaker          *gobreaker.CircuitBreaker[[]byte]
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// 連続失敗がこの回数に達したらブレーカーを開く
func WithFailureThreshold(n uint32) Option {
	return func(c *Client) { c.failureThreshold = n }
}

// 開いたブレーカーが半開になるまでの時間
func WithOpenTimeout(d time.Duration) Option {
	return func(c *Client) { c.openTimeout = d }
}

func NewClient(baseURL string, readTimeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		readTimeout:      readTimeout,
		failureThreshold: 5,
		openTimeout:      30 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "storefront-catalog",
		MaxRequests: 1,
		Timeout:     c.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.failureThreshold
		},
		// 4xxはバックエンドの正常応答として数える
		IsSuccessful: func(err error) bool {
			var be *repo.BackendError
			if errors.As(err, &be) {
				return be.Status < http.StatusInternalServerError
			}
			return err == nil
		},
	})
	return c
}

func (c *Client) GetShop(ctx context.Context, slug string) (model.Shop, error) {
	var shop model.Shop
	if err := c.getJSON(ctx, storePath(slug), nil, &shop); err != nil {
		return model.Shop{}, err
	}
	return shop, nil
}

func (c *Client) ListProducts(ctx context.Context, slug string, q repo.ProductListQuery) (model.ProductPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		query.Set("category_id", q.CategoryID)
	}
	if q.MinPrice != nil {
		query.Set("min_price", strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		query.Set("max_price", strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	var page model.ProductPage
	if err := c.getJSON(ctx, storePath(slug)+"/products", query, &page); err != nil {
		return model.ProductPage{}, err
	}
	if page.Products == nil {
		page.Products = []model.Product{}
	}
	return page, nil
}

func (c *Client) GetProduct(ctx context.Context, slug string, productID string) (model.Product, error) {
	var p model.Product
	if err := c.getJSON(ctx, storePath(slug)+"/products/"+url.PathEscape(productID), nil, &p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (c *Client) ListCategories(ctx context.Context, slug string) ([]model.Category, error) {
	var body struct {
		Categories []model.Category `json:"categories"`
	}
	if err := c.getJSON(ctx, storePath(slug)+"/categories", nil, &body); err != nil {
		return nil, err
	}
	if body.Categories == nil {
		return []model.Category{}, nil
	}
	return body.Categories, nil
}

// CreateOrder は注文を1回だけ送る。エラー応答のメッセージは BackendError にそのまま入れる。
func (c *Client) CreateOrder(ctx context.Context, shopSlug string, in model.OrderRequest, idempotencyKey string) (model.OrderConfirmation, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return model.OrderConfirmation{}, fmt.Errorf("marshal order failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(storePath(shopSlug)+"/orders", nil), bytes.NewReader(payload))
	if err != nil {
		return model.OrderConfirmation{}, fmt.Errorf("build order request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	body, err := c.do(req)
	if err != nil {
		return model.OrderConfirmation{}, err
	}

	var conf model.OrderConfirmation
	if err := json.Unmarshal(body, &conf); err != nil {
		return model.OrderConfirmation{}, fmt.Errorf("decode order response failed: %w", err)
	}
	if conf.ID == "" {
		return model.OrderConfirmation{}, errors.New("order response has no id")
	}
	return conf, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
		if err != nil {
			return nil, fmt.Errorf("build request failed: %w", err)
		}
		return c.do(req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return repo.ErrUnavailable
	}
	var be *repo.BackendError
	if errors.As(err, &be) && be.Status == http.StatusNotFound {
		return repo.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s failed: %w", path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read backend response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &repo.BackendError{Status: resp.StatusCode, Message: errorMessage(body, resp.StatusCode)}
	}
	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func storePath(slug string) string {
	return "/api/v1/store/" + url.PathEscape(slug)
}

// {"error": "..."} と {"message": "..."} のどちらも受ける
func errorMessage(body []byte, status int) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
