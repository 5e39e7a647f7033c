package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// Clock は現在時刻。nilなら time.Now。
type Clock func() time.Time

// CartResponse はカート系APIの共通レスポンス
type CartResponse struct {
	Items           []CartItemResponse  `json:"items"`
	Subtotal        int64               `json:"subtotal"`
	SubtotalDisplay string              `json:"subtotal_display"`
	ItemCount       int64               `json:"item_count"`
	State           model.CheckoutState `json:"state"`
	LastError       string              `json:"last_error,omitempty"`
}

type CartItemResponse struct {
	model.CartLineItem
	PriceDisplay     string `json:"price_display"`
	LineTotal        int64  `json:"line_total"`
	LineTotalDisplay string `json:"line_total_display"`
}

// sessionState はカート枠と注文フロー枠の読み書きをまとめる。
type sessionState struct {
	carts     repo.CartStore
	checkouts repo.CheckoutRepository
	tx        repo.TransactionManager
	log       *zap.Logger
	clock     Clock
}

func newSessionState(
	carts repo.CartStore,
	checkouts repo.CheckoutRepository,
	tx repo.TransactionManager,
	log *zap.Logger,
	clock Clock,
) sessionState {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return sessionState{carts: carts, checkouts: checkouts, tx: tx, log: log, clock: clock}
}

func (s sessionState) now() time.Time {
	return s.clock().UTC()
}

func validKey(key repo.SlotKey) error {
	if key.ShopSlug == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid shop")
	}
	if key.SessionID == "" {
		return NewHTTPError(http.StatusUnauthorized, "no cart session")
	}
	return nil
}

// 無い・読めない枠は空カートとして扱う
func (s sessionState) loadCart(ctx context.Context, key repo.SlotKey) (*model.Cart, error) {
	items, err := s.carts.Load(ctx, key)
	switch {
	case err == nil:
		return model.NewCart(items), nil
	case errors.Is(err, repo.ErrNotFound):
		return model.NewCart(nil), nil
	case errors.Is(err, repo.ErrMalformed):
		s.log.Warn("cart slot unreadable, starting empty",
			zap.String("key", key.CartKey()),
			zap.Error(err),
		)
		return model.NewCart(nil), nil
	default:
		s.log.Error("cart load failed", zap.String("key", key.CartKey()), zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "storage error")
	}
}

func (s sessionState) loadCheckout(ctx context.Context, key repo.SlotKey) (model.Checkout, error) {
	co, err := s.checkouts.Find(ctx, key)
	switch {
	case err == nil:
		return co, nil
	case errors.Is(err, repo.ErrNotFound):
		return model.NewCheckout(s.now()), nil
	case errors.Is(err, repo.ErrMalformed):
		s.log.Warn("checkout slot unreadable, resetting",
			zap.String("key", key.CheckoutKey()),
			zap.Error(err),
		)
		return model.NewCheckout(s.now()), nil
	default:
		s.log.Error("checkout load failed", zap.String("key", key.CheckoutKey()), zap.Error(err))
		return model.Checkout{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}
}

// カートと状態を1トランザクションで書く
func (s sessionState) persist(ctx context.Context, key repo.SlotKey, cart *model.Cart, co model.Checkout) error {
	err := s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().Save(ctx, key, cart.Items); err != nil {
			return err
		}
		return r.Checkouts().Save(ctx, key, co)
	})
	if err != nil {
		s.log.Error("cart save failed", zap.String("key", key.CartKey()), zap.Error(err))
		return NewHTTPError(http.StatusInternalServerError, "storage error")
	}
	return nil
}

func buildCartResponse(cart *model.Cart, co model.Checkout) CartResponse {
	items := make([]CartItemResponse, 0, cart.Len())
	for _, it := range cart.Items {
		items = append(items, CartItemResponse{
			CartLineItem:     it,
			PriceDisplay:     model.FormatMinorUnits(it.UnitPriceMinorUnits),
			LineTotal:        it.LineTotalMinorUnits(),
			LineTotalDisplay: model.FormatMinorUnits(it.LineTotalMinorUnits()),
		})
	}

	subtotal := cart.SubtotalMinorUnits()
	return CartResponse{
		Items:           items,
		Subtotal:        subtotal,
		SubtotalDisplay: model.FormatMinorUnits(subtotal),
		ItemCount:       cart.ItemCount(),
		State:           co.State,
		LastError:       co.LastError,
	}
}
