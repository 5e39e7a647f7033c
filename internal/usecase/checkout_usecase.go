package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 注文者情報の検証。Usecaseは interface だけ知る。
type CustomerValidator interface {
	ValidateCustomer(in model.CustomerDetails) error
}

// CheckoutUsecase は注文確定の流れ（送信→確定/失敗）を持つ。
type CheckoutUsecase struct {
	sessionState
	orders    repo.OrderGateway
	validator CustomerValidator
	newKey    func() string
}

func NewCheckoutUsecase(
	orders repo.OrderGateway,
	validator CustomerValidator,
	carts repo.CartStore,
	checkouts repo.CheckoutRepository,
	tx repo.TransactionManager,
	log *zap.Logger,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessionState: newSessionState(carts, checkouts, tx, log, clock),
		orders:       orders,
		validator:    validator,
		newKey:       uuid.NewString,
	}
}

type CheckoutStatusResponse struct {
	State           model.CheckoutState `json:"state"`
	OrderID         string              `json:"order_id,omitempty"`
	OrderNumber     string              `json:"order_number,omitempty"`
	LastError       string              `json:"last_error,omitempty"`
	ItemCount       int64               `json:"item_count"`
	Subtotal        int64               `json:"subtotal"`
	SubtotalDisplay string              `json:"subtotal_display"`
}

type OrderPlacedResponse struct {
	State         model.CheckoutState `json:"state"`
	OrderID       string              `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status,omitempty"`
	Total         int64               `json:"total"`
	TotalDisplay  string              `json:"total_display"`
}

// Status は今の注文フロー状態を返す。
func (u *CheckoutUsecase) Status(ctx context.Context, key repo.SlotKey) (CheckoutStatusResponse, error) {
	if err := validKey(key); err != nil {
		return CheckoutStatusResponse{}, err
	}

	cart, err := u.loadCart(ctx, key)
	if err != nil {
		return CheckoutStatusResponse{}, err
	}
	co, err := u.loadCheckout(ctx, key)
	if err != nil {
		return CheckoutStatusResponse{}, err
	}
	co.Sync(cart, u.now())

	subtotal := cart.SubtotalMinorUnits()
	return CheckoutStatusResponse{
		State:           co.State,
		OrderID:         co.OrderID,
		OrderNumber:     co.OrderNumber,
		LastError:       co.LastError,
		ItemCount:       cart.ItemCount(),
		Subtotal:        subtotal,
		SubtotalDisplay: model.FormatMinorUnits(subtotal),
	}, nil
}

// Submit はカートを注文として1回だけ送る。
// 成功ならカートを消して CONFIRMED、失敗ならカートを残してメッセージを返す。
func (u *CheckoutUsecase) Submit(ctx context.Context, key repo.SlotKey, in model.CustomerDetails) (OrderPlacedResponse, error) {
	if err := validKey(key); err != nil {
		return OrderPlacedResponse{}, err
	}

	in = trimCustomer(in)
	if err := u.validator.ValidateCustomer(in); err != nil {
		return OrderPlacedResponse{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := u.loadCart(ctx, key)
	if err != nil {
		return OrderPlacedResponse{}, err
	}
	co, err := u.loadCheckout(ctx, key)
	if err != nil {
		return OrderPlacedResponse{}, err
	}

	// ここから先はショッパーが切断しても最後まで進める
	ctx = context.WithoutCancel(ctx)

	if err := co.Begin(cart, u.now()); err != nil {
		if errors.Is(err, model.ErrCartEmpty) {
			if err := u.checkouts.Save(ctx, key, co); err != nil {
				u.log.Warn("checkout save failed", zap.String("key", key.CheckoutKey()), zap.Error(err))
			}
			return OrderPlacedResponse{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		return OrderPlacedResponse{}, NewHTTPError(http.StatusConflict, "checkout in progress")
	}
	if err := u.checkouts.Save(ctx, key, co); err != nil {
		u.log.Error("checkout save failed", zap.String("key", key.CheckoutKey()), zap.Error(err))
		return OrderPlacedResponse{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	idempotencyKey := u.newKey()
	conf, err := u.orders.CreateOrder(ctx, key.ShopSlug, cart.ToOrderRequest(in), idempotencyKey)
	if err != nil {
		return OrderPlacedResponse{}, u.fail(ctx, key, co, err)
	}

	if err := co.Confirm(conf, u.now()); err != nil {
		return OrderPlacedResponse{}, NewHTTPError(http.StatusConflict, "checkout in progress")
	}

	// カートを消してから CONFIRMED を書く
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().Delete(ctx, key); err != nil {
			return err
		}
		return r.Checkouts().Save(ctx, key, co)
	})
	if err != nil {
		// 注文は通っているので確定情報は返す
		u.log.Error("order placed but session update failed",
			zap.String("key", key.CheckoutKey()),
			zap.String("order_id", conf.ID),
			zap.Error(err),
		)
	}

	u.log.Info("order placed",
		zap.String("shop", key.ShopSlug),
		zap.String("order_id", conf.ID),
		zap.String("order_number", conf.OrderNumber),
		zap.String("idempotency_key", idempotencyKey),
	)

	return OrderPlacedResponse{
		State:         co.State,
		OrderID:       conf.ID,
		OrderNumber:   conf.OrderNumber,
		Status:        conf.Status,
		PaymentStatus: conf.PaymentStatus,
		Total:         conf.Total,
		TotalDisplay:  model.FormatMinorUnits(conf.Total),
	}, nil
}

// バックエンドのメッセージはそのまま返す
func (u *CheckoutUsecase) fail(ctx context.Context, key repo.SlotKey, co model.Checkout, cause error) error {
	status := http.StatusUnprocessableEntity
	msg := "failed to place order"

	var be *repo.BackendError
	if errors.As(cause, &be) {
		msg = be.Message
	} else {
		status = http.StatusBadGateway
	}

	_ = co.Fail(msg, u.now())
	if err := u.checkouts.Save(ctx, key, co); err != nil {
		u.log.Error("checkout save failed", zap.String("key", key.CheckoutKey()), zap.Error(err))
	}

	u.log.Warn("order submission failed",
		zap.String("shop", key.ShopSlug),
		zap.String("message", msg),
		zap.Error(cause),
	)
	return NewHTTPError(status, msg)
}

func trimCustomer(in model.CustomerDetails) model.CustomerDetails {
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.ShippingCity = strings.TrimSpace(in.ShippingCity)
	in.ShippingState = strings.TrimSpace(in.ShippingState)
	in.ShippingZip = strings.TrimSpace(in.ShippingZip)
	in.ShippingCountry = strings.TrimSpace(in.ShippingCountry)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}
