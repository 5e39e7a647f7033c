package model

// カートの明細
// 追加時点の価格（最小通貨単位）を必ず保存。
type CartLineItem struct {
	// 商品ID、オプションがある商品はバリアントID
	ID                  string      `json:"id"`
	ProductID           string      `json:"product_id,omitempty"`
	Name                string      `json:"name"`
	UnitPriceMinorUnits int64       `json:"price"`
	Quantity            int64       `json:"quantity"`
	ImageURL            string      `json:"image,omitempty"`
	Variant             *VariantRef `json:"variant,omitempty"`
}

// 選択されたバリアントの参照
type VariantRef struct {
	ID      string               `json:"id"`
	SKU     string               `json:"sku"`
	Options []VariantOptionValue `json:"options,omitempty"`
}

// カートに追加する候補（数量以外）
type ItemCandidate struct {
	ID                  string
	ProductID           string
	Name                string
	UnitPriceMinorUnits int64
	ImageURL            string
	Variant             *VariantRef
}

// 小計（単価×数量）
func (it CartLineItem) LineTotalMinorUnits() int64 {
	return it.UnitPriceMinorUnits * it.Quantity
}
