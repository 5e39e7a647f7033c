package repository

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 明細リストは配列のJSONで保存する（金額は整数）
func encodeItems(items []model.CartLineItem) ([]byte, error) {
	if items == nil {
		items = []model.CartLineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal cart items failed: %w", err)
	}
	return b, nil
}

func decodeItems(b []byte) ([]model.CartLineItem, error) {
	var items []model.CartLineItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", repo.ErrMalformed, err)
	}
	if items == nil {
		items = []model.CartLineItem{}
	}
	return items, nil
}

func encodeCheckout(c model.Checkout) ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout failed: %w", err)
	}
	return b, nil
}

func decodeCheckout(b []byte) (model.Checkout, error) {
	var c model.Checkout
	if err := json.Unmarshal(b, &c); err != nil {
		return model.Checkout{}, fmt.Errorf("%w: %v", repo.ErrMalformed, err)
	}
	if c.State == "" {
		return model.Checkout{}, fmt.Errorf("%w: missing state", repo.ErrMalformed)
	}
	return c, nil
}
