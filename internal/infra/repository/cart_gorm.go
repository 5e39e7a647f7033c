package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormStore struct {
	db *gorm.DB
}

// DI
func NewCartGormStore(db *gorm.DB) *CartGormStore {
	return &CartGormStore{db: db}
}

// 保存枠の明細を取得
func (r *CartGormStore) Load(ctx context.Context, key repo.SlotKey) ([]model.CartLineItem, error) {
	var slot model.CartSlot

	err := r.db.WithContext(ctx).
		Where("slot_key = ?", key.CartKey()).
		First(&slot).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeItems([]byte(slot.Payload))
}

// 明細を丸ごと書き戻す（無ければ作る）
func (r *CartGormStore) Save(ctx context.Context, key repo.SlotKey, items []model.CartLineItem) error {
	payload, err := encodeItems(items)
	if err != nil {
		return err
	}

	slot := model.CartSlot{
		SlotKey:   key.CartKey(),
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&slot).Error
}

// 保存枠を削除（無くてもエラーにしない）
func (r *CartGormStore) Delete(ctx context.Context, key repo.SlotKey) error {
	return r.db.WithContext(ctx).
		Where("slot_key = ?", key.CartKey()).
		Delete(&model.CartSlot{}).Error
}
