package validator

import (
	"errors"
	"regexp"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

var (
	ErrEmailRequired   = errors.New("customer_email is required")
	ErrEmailInvalid    = errors.New("customer_email is invalid")
	ErrNameRequired    = errors.New("customer_name is required")
	ErrAddressRequired = errors.New("shipping_address is required")
	ErrCityRequired    = errors.New("shipping_city is required")
	ErrZipRequired     = errors.New("shipping_zip is required")
	ErrNotesTooLong    = errors.New("notes too long")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxNotesLen = 1000

type checkoutValidator struct{}

// Usecaseは interface を依存注入
func NewCheckoutValidator() usecase.CustomerValidator {
	return &checkoutValidator{}
}

// 注文者・配送先を検証（前後の空白は呼び出し側で落とす）
func (v *checkoutValidator) ValidateCustomer(in model.CustomerDetails) error {
	// 必須チェック
	if in.CustomerEmail == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(in.CustomerEmail) {
		return ErrEmailInvalid
	}
	if in.CustomerName == "" {
		return ErrNameRequired
	}
	if in.ShippingAddress == "" {
		return ErrAddressRequired
	}
	if in.ShippingCity == "" {
		return ErrCityRequired
	}
	if in.ShippingZip == "" {
		return ErrZipRequired
	}

	if len(in.Notes) > maxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}
