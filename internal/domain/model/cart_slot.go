package model

import "time"

// カートの保存枠（明細リストをJSONで1行に持つ）
type CartSlot struct {
	SlotKey   string    `gorm:"primaryKey;type:varchar(255)" json:"slot_key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

// 注文フロー状態の保存枠
type CheckoutSession struct {
	SlotKey   string    `gorm:"primaryKey;type:varchar(255)" json:"slot_key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}
