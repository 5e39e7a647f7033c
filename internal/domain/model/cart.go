package model

import "math"

// Cart は1ショッパー・1ショップ分のカートです。
// 明細の並び順は追加順を保ちます。
type Cart struct {
	Items []CartLineItem
}

// NewCart は保存済みの明細からカートを組み立てる。
// 壊れた行（IDなし・数量0以下）は捨て、同じIDは数量をまとめる。
func NewCart(items []CartLineItem) *Cart {
	c := &Cart{Items: make([]CartLineItem, 0, len(items))}
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		if i := c.indexOf(it.ID); i >= 0 {
			c.Items[i].Quantity = addQuantity(c.Items[i].Quantity, it.Quantity)
			continue
		}
		c.Items = append(c.Items, it)
	}
	return c
}

// AddItem は候補を追加する（同じIDは数量加算）。
// 数量が1未満なら1として扱う。
func (c *Cart) AddItem(cand ItemCandidate, qty int64) {
	if qty < 1 {
		qty = 1
	}

	if i := c.indexOf(cand.ID); i >= 0 {
		// 価格は追加時点のまま
		c.Items[i].Quantity = addQuantity(c.Items[i].Quantity, qty)
		return
	}

	c.Items = append(c.Items, CartLineItem{
		ID:                  cand.ID,
		ProductID:           cand.ProductID,
		Name:                cand.Name,
		UnitPriceMinorUnits: cand.UnitPriceMinorUnits,
		Quantity:            qty,
		ImageURL:            cand.ImageURL,
		Variant:             cand.Variant,
	})
}

// SetQuantity は数量を置き換える。1未満は削除と同じ。
func (c *Cart) SetQuantity(id string, qty int64) {
	if qty < 1 {
		c.RemoveItem(id)
		return
	}
	if i := c.indexOf(id); i >= 0 {
		c.Items[i].Quantity = qty
	}
}

func (c *Cart) RemoveItem(id string) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

func (c *Cart) Clear() {
	c.Items = []CartLineItem{}
}

// SubtotalMinorUnits は Σ(単価×数量)。税・送料は含めない。
func (c *Cart) SubtotalMinorUnits() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotalMinorUnits()
	}
	return total
}

// ItemCount は数量の合計（行数ではない）。
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	return len(c.Items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Find(id string) (CartLineItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.Items[i], true
	}
	return CartLineItem{}, false
}

// ToOrderRequest はカートを注文作成リクエストに変換する。
// customerの検証はしない。
func (c *Cart) ToOrderRequest(customer CustomerDetails) OrderRequest {
	lines := make([]OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, OrderLine{
			ProductID: it.ID,
			Quantity:  it.Quantity,
		})
	}
	return OrderRequest{
		CustomerDetails: customer,
		Items:           lines,
	}
}

// 数量の加算。int64を超える分は上限で止める。
func addQuantity(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}
