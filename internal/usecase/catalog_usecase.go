package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CatalogUsecase はショップ・商品・カテゴリの公開読み取り。
type CatalogUsecase struct {
	catalog repo.CatalogReader
}

// DI
func NewCatalogUsecase(catalog repo.CatalogReader) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

// GET /store/:slug/products の入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

// 選択中バリアントの表示用
type VariantResolution struct {
	Matched             bool                  `json:"matched"`
	Complete            bool                  `json:"complete"`
	Variant             *model.ProductVariant `json:"variant,omitempty"`
	Name                string                `json:"name"`
	SKU                 string                `json:"sku"`
	Price               int64                 `json:"price"`
	PriceDisplay        string                `json:"price_display"`
	ComparePrice        *int64                `json:"compare_price,omitempty"`
	ComparePriceDisplay string                `json:"compare_price_display,omitempty"`
	Stock               int64                 `json:"stock"`
	InStock             bool                  `json:"in_stock"`
	Images              []model.Media         `json:"images"`
}

func (u *CatalogUsecase) GetShop(ctx context.Context, slug string) (model.Shop, error) {
	if strings.TrimSpace(slug) == "" {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid shop")
	}

	shop, err := u.catalog.GetShop(ctx, slug)
	if err != nil {
		return model.Shop{}, catalogError(err, "shop not found")
	}
	return shop, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context, slug string) ([]model.Category, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid shop")
	}

	cats, err := u.catalog.ListCategories(ctx, slug)
	if err != nil {
		return nil, catalogError(err, "shop not found")
	}
	return cats, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, slug string, in ListProductsInput) (model.ProductPage, error) {
	if strings.TrimSpace(slug) == "" {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "invalid shop")
	}
	if in.Page < 1 {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 50 {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Search) > 100 {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "search too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "name":
	default:
		return model.ProductPage{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	page, err := u.catalog.ListProducts(ctx, slug, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Search:     strings.TrimSpace(in.Search),
		CategoryID: strings.TrimSpace(in.CategoryID),
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		Sort:       in.Sort,
	})
	if err != nil {
		return model.ProductPage{}, catalogError(err, "shop not found")
	}
	return page, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, slug string, productID string) (model.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid shop")
	}
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.GetProduct(ctx, slug, productID)
	if err != nil {
		return model.Product{}, catalogError(err, "not found")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// ResolveVariant は選択中のオプションから表示する価格・在庫・画像を決める。
// 一致が無ければ商品の値を返す。
func (u *CatalogUsecase) ResolveVariant(ctx context.Context, slug string, productID string, sel model.OptionSelection) (VariantResolution, error) {
	p, err := u.GetProduct(ctx, slug, productID)
	if err != nil {
		return VariantResolution{}, err
	}

	// 他商品のオプションIDは無視する
	known := make(map[string]struct{}, len(p.Options))
	for _, opt := range p.Options {
		known[opt.ID] = struct{}{}
	}
	for optionID := range sel {
		if _, ok := known[optionID]; !ok {
			return VariantResolution{}, NewHTTPError(http.StatusBadRequest, "unknown option "+optionID)
		}
	}

	var vp *model.ProductVariant
	if v, ok := model.MatchVariant(p.Variants, sel); ok && v.IsActive {
		vp = &v
	}

	out := VariantResolution{
		Matched:      vp != nil,
		Complete:     model.SelectionComplete(p, sel),
		Variant:      vp,
		Name:         model.LineName(p.Name, vp),
		SKU:          model.EffectiveSKU(p, vp),
		Price:        model.EffectivePrice(p, vp),
		ComparePrice: model.EffectiveComparePrice(p, vp),
		Stock:        model.EffectiveStock(p, vp),
		Images:       model.EffectiveImages(p, vp),
	}
	out.PriceDisplay = model.FormatMinorUnits(out.Price)
	if out.ComparePrice != nil {
		out.ComparePriceDisplay = model.FormatMinorUnits(*out.ComparePrice)
	}
	out.InStock = out.Stock > 0
	if out.Images == nil {
		out.Images = []model.Media{}
	}
	return out, nil
}
