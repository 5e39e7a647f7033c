package model

import "time"

// 以下はバックエンドの公開ストアAPIから読む形。価格は最小通貨単位。

type Shop struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	Logo           string `json:"logo"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
}

type Media struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	SortOrder int    `json:"sort_order"`
}

type Product struct {
	ID           string           `json:"id"`
	ShopID       string           `json:"shop_id"`
	CategoryID   *string          `json:"category_id,omitempty"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	SKU          string           `json:"sku"`
	Price        int64            `json:"price"`
	ComparePrice *int64           `json:"compare_price,omitempty"`
	Stock        int64            `json:"stock"`
	IsActive     bool             `json:"is_active"`
	IsFeatured   bool             `json:"is_featured"`
	Images       []Media          `json:"images,omitempty"`
	Options      []ProductOption  `json:"options,omitempty"`
	Variants     []ProductVariant `json:"variants,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// 色・サイズなどのオプション
type ProductOption struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Position int                  `json:"position"`
	Values   []ProductOptionValue `json:"values"`
}

type ProductOptionValue struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Position int    `json:"position"`
}

// オプション値の組み合わせ1つ分。Priceがnilなら商品価格。
type ProductVariant struct {
	ID           string               `json:"id"`
	SKU          string               `json:"sku"`
	Price        *int64               `json:"price,omitempty"`
	ComparePrice *int64               `json:"compare_price,omitempty"`
	Stock        int64                `json:"stock"`
	IsDefault    bool                 `json:"is_default"`
	IsActive     bool                 `json:"is_active"`
	OptionValues []VariantOptionValue `json:"option_values"`
	Images       []Media              `json:"images,omitempty"`
}

type VariantOptionValue struct {
	OptionID   string `json:"option_id"`
	OptionName string `json:"option_name"`
	ValueID    string `json:"value_id"`
	Value      string `json:"value"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

func (p Product) HasOptions() bool {
	return len(p.Options) > 0
}
