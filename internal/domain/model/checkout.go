package model

import (
	"errors"
	"time"
)

var (
	// 空カートでは注文に進めない
	ErrCartEmpty = errors.New("cart empty")

	// 今の状態からは遷移できない
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

type CheckoutState string

const (
	CheckoutStateBrowsing     CheckoutState = "BROWSING"
	CheckoutStateCartNonEmpty CheckoutState = "CART_NON_EMPTY"
	CheckoutStateSubmitting   CheckoutState = "SUBMITTING"
	CheckoutStateConfirmed    CheckoutState = "CONFIRMED"
)

// 送信中のまま放置された状態はこれを過ぎたら戻す
const SubmittingStaleAfter = 2 * time.Minute

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateConfirmed
}

func (s CheckoutState) String() string {
	return string(s)
}

// Checkout は注文フローの状態です。
// 1ショッパー・1ショップにつき1つ。
type Checkout struct {
	State       CheckoutState `json:"state"`
	OrderID     string        `json:"order_id,omitempty"`
	OrderNumber string        `json:"order_number,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func NewCheckout(now time.Time) Checkout {
	return Checkout{State: CheckoutStateBrowsing, UpdatedAt: now}
}

// Sync はカートの中身から BROWSING / CART_NON_EMPTY を決め直す。
// 送信中は触らない。CONFIRMED は次にカートが変わるまで残す。
func (c *Checkout) Sync(cart *Cart, now time.Time) {
	if c.State == CheckoutStateSubmitting {
		if now.Sub(c.UpdatedAt) < SubmittingStaleAfter {
			return
		}
	}
	if c.State == CheckoutStateConfirmed && cart.IsEmpty() {
		return
	}

	next := CheckoutStateBrowsing
	if !cart.IsEmpty() {
		next = CheckoutStateCartNonEmpty
	}
	if c.State == CheckoutStateConfirmed {
		// 新しいライフサイクル
		c.OrderID = ""
		c.OrderNumber = ""
	}
	if next == CheckoutStateBrowsing {
		c.LastError = ""
	}
	if c.State != next {
		c.State = next
		c.UpdatedAt = now
	}
}

// Begin は送信開始。空カートなら ErrCartEmpty で BROWSING に戻す。
func (c *Checkout) Begin(cart *Cart, now time.Time) error {
	if c.State == CheckoutStateSubmitting && now.Sub(c.UpdatedAt) < SubmittingStaleAfter {
		return ErrInvalidTransition
	}
	if cart.IsEmpty() {
		c.State = CheckoutStateBrowsing
		c.OrderID = ""
		c.OrderNumber = ""
		c.LastError = ""
		c.UpdatedAt = now
		return ErrCartEmpty
	}

	c.State = CheckoutStateSubmitting
	c.OrderID = ""
	c.OrderNumber = ""
	c.LastError = ""
	c.UpdatedAt = now
	return nil
}

// Confirm は SUBMITTING → CONFIRMED。カートのクリアは呼び出し側。
func (c *Checkout) Confirm(conf OrderConfirmation, now time.Time) error {
	if c.State != CheckoutStateSubmitting {
		return ErrInvalidTransition
	}
	c.State = CheckoutStateConfirmed
	c.OrderID = conf.ID
	c.OrderNumber = conf.OrderNumber
	c.LastError = ""
	c.UpdatedAt = now
	return nil
}

// Fail は SUBMITTING → CART_NON_EMPTY。メッセージは再送用に残す。
func (c *Checkout) Fail(message string, now time.Time) error {
	if c.State != CheckoutStateSubmitting {
		return ErrInvalidTransition
	}
	c.State = CheckoutStateCartNonEmpty
	c.LastError = message
	c.UpdatedAt = now
	return nil
}
