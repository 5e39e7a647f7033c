package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// CartUsecase は /store/:slug/cart の業務ロジックです。
// カートはショップ×セッションの枠に丸ごと保存します。
type CartUsecase struct {
	sessionState
	catalog repo.CatalogReader
}

func NewCartUsecase(
	catalog repo.CatalogReader,
	carts repo.CartStore,
	checkouts repo.CheckoutRepository,
	tx repo.TransactionManager,
	log *zap.Logger,
	clock Clock,
) *CartUsecase {
	return &CartUsecase{
		sessionState: newSessionState(carts, checkouts, tx, log, clock),
		catalog:      catalog,
	}
}

type AddCartItemInput struct {
	ProductID string
	Options   model.OptionSelection
	Quantity  int64
}

// GetCart はカートを返す。放置された送信中状態はここで戻す。
func (u *CartUsecase) GetCart(ctx context.Context, key repo.SlotKey) (CartResponse, error) {
	if err := validKey(key); err != nil {
		return CartResponse{}, err
	}

	cart, err := u.loadCart(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}
	co, err := u.loadCheckout(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}

	before := co.State
	co.Sync(cart, u.now())
	if co.State != before {
		if err := u.checkouts.Save(ctx, key, co); err != nil {
			// 読み取りは返せるので落とさない
			u.log.Warn("checkout resync save failed", zap.String("key", key.CheckoutKey()), zap.Error(err))
		}
	}

	return buildCartResponse(cart, co), nil
}

// AddItem は商品（オプションがあればバリアント）をカートに入れる。
// 同じ明細は数量を足す。
func (u *CartUsecase) AddItem(ctx context.Context, key repo.SlotKey, in AddCartItemInput) (CartResponse, error) {
	if err := validKey(key); err != nil {
		return CartResponse{}, err
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	p, err := u.catalog.GetProduct(ctx, key.ShopSlug, productID)
	if err != nil {
		return CartResponse{}, catalogError(err, "product not found")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}

	var variant *model.ProductVariant
	if p.HasOptions() {
		if !model.SelectionComplete(p, in.Options) {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "please select all options")
		}
		v, ok := model.MatchVariant(p.Variants, in.Options)
		if !ok || !v.IsActive {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "selected options unavailable")
		}
		variant = &v
	}

	cart, err := u.loadCart(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}
	co, err := u.loadCheckout(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}
	if err := u.ensureEditable(co); err != nil {
		return CartResponse{}, err
	}

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	cand := model.NewItemCandidate(p, variant)

	// 在庫チェック（既存数量＋追加数量 <= 在庫）
	var existing int64
	if it, ok := cart.Find(cand.ID); ok {
		existing = it.Quantity
	}
	if qty > model.EffectiveStock(p, variant)-existing {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	cart.AddItem(cand, qty)
	return u.commit(ctx, key, cart, co)
}

// SetQuantity は数量を置き換える。1未満は削除。無いIDは何もしない。
// 在庫は商品を読み直して確認する。
func (u *CartUsecase) SetQuantity(ctx context.Context, key repo.SlotKey, itemID string, qty int64) (CartResponse, error) {
	if err := validKey(key); err != nil {
		return CartResponse{}, err
	}
	if strings.TrimSpace(itemID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	cart, co, err := u.loadEditable(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}

	if it, ok := cart.Find(itemID); ok && qty >= 1 {
		if err := u.checkStock(ctx, key.ShopSlug, it, qty); err != nil {
			return CartResponse{}, err
		}
	}

	cart.SetQuantity(itemID, qty)
	return u.commit(ctx, key, cart, co)
}

// 商品（バリアント）を読み直して在庫を超えないか見る
func (u *CartUsecase) checkStock(ctx context.Context, slug string, it model.CartLineItem, qty int64) error {
	productID := it.ProductID
	if productID == "" {
		productID = it.ID
	}
	p, err := u.catalog.GetProduct(ctx, slug, productID)
	if err != nil {
		return catalogError(err, "product not found")
	}

	var variant *model.ProductVariant
	if it.Variant != nil {
		for i := range p.Variants {
			if p.Variants[i].ID == it.Variant.ID {
				variant = &p.Variants[i]
				break
			}
		}
		if variant == nil {
			return NewHTTPError(http.StatusBadRequest, "selected options unavailable")
		}
	}

	if qty > model.EffectiveStock(p, variant) {
		return NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}
	return nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, key repo.SlotKey, itemID string) (CartResponse, error) {
	if err := validKey(key); err != nil {
		return CartResponse{}, err
	}
	if strings.TrimSpace(itemID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	cart, co, err := u.loadEditable(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}

	cart.RemoveItem(itemID)
	return u.commit(ctx, key, cart, co)
}

func (u *CartUsecase) Clear(ctx context.Context, key repo.SlotKey) (CartResponse, error) {
	if err := validKey(key); err != nil {
		return CartResponse{}, err
	}

	cart, co, err := u.loadEditable(ctx, key)
	if err != nil {
		return CartResponse{}, err
	}

	cart.Clear()
	return u.commit(ctx, key, cart, co)
}

func (u *CartUsecase) loadEditable(ctx context.Context, key repo.SlotKey) (*model.Cart, model.Checkout, error) {
	cart, err := u.loadCart(ctx, key)
	if err != nil {
		return nil, model.Checkout{}, err
	}
	co, err := u.loadCheckout(ctx, key)
	if err != nil {
		return nil, model.Checkout{}, err
	}
	if err := u.ensureEditable(co); err != nil {
		return nil, model.Checkout{}, err
	}
	return cart, co, nil
}

// 送信中はカートを変えさせない
func (u *CartUsecase) ensureEditable(co model.Checkout) error {
	if co.State == model.CheckoutStateSubmitting && u.now().Sub(co.UpdatedAt) < model.SubmittingStaleAfter {
		return NewHTTPError(http.StatusConflict, "checkout in progress")
	}
	return nil
}

func (u *CartUsecase) commit(ctx context.Context, key repo.SlotKey, cart *model.Cart, co model.Checkout) (CartResponse, error) {
	co.Sync(cart, u.now())
	if err := u.persist(ctx, key, cart, co); err != nil {
		return CartResponse{}, err
	}
	return buildCartResponse(cart, co), nil
}
