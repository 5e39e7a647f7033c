package model

import (
	"errors"
	"strings"
)

// オプションがすべて選ばれていない
var ErrSelectionIncomplete = errors.New("selection incomplete")

// OptionSelection は optionID → valueID の選択。
type OptionSelection map[string]string

type optionPair struct {
	optionID string
	valueID  string
}

func (v ProductVariant) pairs() map[optionPair]struct{} {
	set := make(map[optionPair]struct{}, len(v.OptionValues))
	for _, ov := range v.OptionValues {
		set[optionPair{optionID: ov.OptionID, valueID: ov.ValueID}] = struct{}{}
	}
	return set
}

// MatchVariant は選択を全部含むバリアントのうち最初の1件を返す。
// 選択が空、またはバリアントが無ければ一致なし。
func MatchVariant(variants []ProductVariant, sel OptionSelection) (ProductVariant, bool) {
	if len(variants) == 0 || len(sel) == 0 {
		return ProductVariant{}, false
	}

	for _, v := range variants {
		set := v.pairs()
		matched := true
		for optionID, valueID := range sel {
			if _, ok := set[optionPair{optionID: optionID, valueID: valueID}]; !ok {
				matched = false
				break
			}
		}
		if matched {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// SelectionComplete は商品の全オプションに、その商品の値が選ばれているか。
func SelectionComplete(p Product, sel OptionSelection) bool {
	for _, opt := range p.Options {
		valueID, ok := sel[opt.ID]
		if !ok {
			return false
		}
		found := false
		for _, v := range opt.Values {
			if v.ID == valueID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// EffectivePrice はバリアント価格があればそれ、無ければ商品価格。
func EffectivePrice(p Product, v *ProductVariant) int64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

func EffectiveComparePrice(p Product, v *ProductVariant) *int64 {
	if v != nil && v.ComparePrice != nil {
		return v.ComparePrice
	}
	return p.ComparePrice
}

func EffectiveStock(p Product, v *ProductVariant) int64 {
	if v != nil {
		return v.Stock
	}
	return p.Stock
}

func EffectiveSKU(p Product, v *ProductVariant) string {
	if v != nil && v.SKU != "" {
		return v.SKU
	}
	return p.SKU
}

func EffectiveImages(p Product, v *ProductVariant) []Media {
	if v != nil && len(v.Images) > 0 {
		return v.Images
	}
	return p.Images
}

// LineName は "Shirt (Red, L)" の形の表示名を作る。
func LineName(productName string, v *ProductVariant) string {
	if v == nil || len(v.OptionValues) == 0 {
		return productName
	}
	values := make([]string, 0, len(v.OptionValues))
	for _, ov := range v.OptionValues {
		values = append(values, ov.Value)
	}
	return productName + " (" + strings.Join(values, ", ") + ")"
}

// NewItemCandidate は商品（と選択バリアント）からカート候補を作る。
func NewItemCandidate(p Product, v *ProductVariant) ItemCandidate {
	cand := ItemCandidate{
		ID:                  p.ID,
		ProductID:           p.ID,
		Name:                LineName(p.Name, v),
		UnitPriceMinorUnits: EffectivePrice(p, v),
	}
	if images := EffectiveImages(p, v); len(images) > 0 {
		cand.ImageURL = images[0].URL
	}
	if v != nil {
		cand.ID = v.ID
		cand.Variant = &VariantRef{
			ID:      v.ID,
			SKU:     v.SKU,
			Options: v.OptionValues,
		}
	}
	return cand
}
