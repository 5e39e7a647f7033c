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

type CheckoutGormRepository struct {
	db *gorm.DB
}

func NewCheckoutGormRepository(db *gorm.DB) *CheckoutGormRepository {
	return &CheckoutGormRepository{db: db}
}

func (r *CheckoutGormRepository) Find(ctx context.Context, key repo.SlotKey) (model.Checkout, error) {
	var s model.CheckoutSession
	err := r.db.WithContext(ctx).Where("slot_key = ?", key.CheckoutKey()).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Checkout{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Checkout{}, err
	}
	return decodeCheckout([]byte(s.Payload))
}

func (r *CheckoutGormRepository) Save(ctx context.Context, key repo.SlotKey, checkout model.Checkout) error {
	payload, err := encodeCheckout(checkout)
	if err != nil {
		return err
	}

	s := model.CheckoutSession{
		SlotKey:   key.CheckoutKey(),
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&s).Error
}
