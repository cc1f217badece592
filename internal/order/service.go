package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kivumart-be/internal/cart"
	"kivumart-be/internal/coupon"
	"kivumart-be/internal/event"
	"kivumart-be/internal/logger"
	"kivumart-be/internal/notification"
	"kivumart-be/internal/payment"
	"kivumart-be/internal/product"
	"kivumart-be/internal/utils"
)

type Service interface {
	// Create builds a pending order from the given items, re-validating
	// any coupon server-side and capturing unit prices. A repeated
	// idempotency key returns the existing order.
	Create(ctx context.Context, params CreateParams) (*Order, error)
	// Pay dispatches payment for a pending order. Hosted paths return a
	// redirect link; inline paths finalize the order before returning.
	Pay(ctx context.Context, params PayParams) (*payment.TransactionResult, error)
	// Finalize verifies the payment with the provider and moves the
	// order to processing. Idempotent for a repeated transaction id.
	Finalize(ctx context.Context, orderID, userID uint, transactionID string) (*Order, error)
	// FinalizeByTxRef is the webhook entry point; the caller has already
	// authenticated the provider.
	FinalizeByTxRef(ctx context.Context, txRef, transactionID string) (*Order, error)
	// RecordPaymentFailure notifies the owner without mutating order
	// state, leaving the order open for a retry.
	RecordPaymentFailure(ctx context.Context, txRef string) error
	UpdateStatus(ctx context.Context, orderID uint, status Status, trackingNumber *string) (*Order, error)
	Get(ctx context.Context, orderID, userID uint, admin bool) (*Order, error)
	List(ctx context.Context, userID uint) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
}

type paymentDispatcher interface {
	Dispatch(ctx context.Context, p payment.DispatchParams) payment.TransactionResult
}

type transferVerifier interface {
	ConfirmTransfer(ctx context.Context, txHash string) (bool, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
	coupons     coupon.Service
	couponRepo  coupon.Repository
	carts       cart.Service
	notifier    notification.Service
	publisher   event.Publisher
	dispatcher  paymentDispatcher
	gateway     payment.Gateway
	wallet      transferVerifier
	now         func() time.Time
}

type ServiceDeps struct {
	Repo        Repository
	ProductRepo product.Repository
	Coupons     coupon.Service
	CouponRepo  coupon.Repository
	Carts       cart.Service
	Notifier    notification.Service
	Publisher   event.Publisher
	Dispatcher  *payment.Dispatcher
	Gateway     payment.Gateway
	Wallet      *payment.WalletClient
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:        deps.Repo,
		productRepo: deps.ProductRepo,
		coupons:     deps.Coupons,
		couponRepo:  deps.CouponRepo,
		carts:       deps.Carts,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		gateway:     deps.Gateway,
		now:         time.Now,
	}
	if deps.Dispatcher != nil {
		s.dispatcher = deps.Dispatcher
	}
	if deps.Wallet != nil {
		s.wallet = deps.Wallet
	}
	return s
}

// ----------------- Create -----------------

func (s *service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("user_id", params.UserID))

	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	if params.IdempotencyKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, params.UserID, params.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info("Idempotency key matched existing order",
				zap.Uint("order_id", existing.ID))
			return existing, nil
		}
	}

	var (
		items       []OrderItem
		couponItems []coupon.LineItem
		subtotal    int64
	)
	for _, it := range params.Items {
		p, err := s.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}

		ok, err := s.productRepo.HasStock(ctx, p.ID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", product.ErrInsufficientStock, p.Name)
		}

		unitPrice := p.DiscountedPrice()
		subtotal += unitPrice * int64(it.Quantity)
		items = append(items, OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
		})
		couponItems = append(couponItems, coupon.LineItem{
			ProductID:  p.ID,
			CategoryID: p.CategoryID,
			UnitPrice:  unitPrice,
			Quantity:   it.Quantity,
		})
	}

	var (
		discount      int64
		appliedCoupon *coupon.Coupon
	)
	if code := strings.TrimSpace(params.CouponCode); code != "" {
		c, validation, err := s.coupons.Validate(ctx, code, subtotal, couponItems)
		if err != nil {
			return nil, err
		}
		if !validation.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCoupon, validation.Message)
		}
		discount = validation.DiscountAmount
		appliedCoupon = c
	}

	o := &Order{
		UserID:         params.UserID,
		Items:          items,
		Address:        params.Address,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          subtotal - discount,
		Status:         StatusPending,
		PaymentMethod:  params.PaymentMethod,
		IdempotencyKey: params.IdempotencyKey,
	}
	if appliedCoupon != nil {
		o.CouponCode = &appliedCoupon.Code
	}

	if err := s.repo.Create(ctx, o); err != nil {
		if err == ErrDuplicateKey && params.IdempotencyKey != "" {
			// lost the race against a concurrent retry
			return s.repo.GetByIdempotencyKey(ctx, params.UserID, params.IdempotencyKey)
		}
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if appliedCoupon != nil {
			if err := s.couponRepo.Redeem(ctx, tx, appliedCoupon.ID, o.ID, params.UserID); err != nil {
				return err
			}
		}
		for _, it := range items {
			if err := s.productRepo.DeductStock(ctx, tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if delErr := s.repo.Delete(ctx, o.ID); delErr != nil {
			log.Error("Failed rolling back order after redemption failure",
				zap.Uint("order_id", o.ID),
				zap.Error(delErr))
		}
		return nil, err
	}

	log.Info("Order created",
		zap.Uint("order_id", o.ID),
		zap.Int64("total", o.Total),
		zap.Int("items", len(items)))
	return o, nil
}

// ----------------- Pay -----------------

func (s *service) Pay(ctx context.Context, params PayParams) (*payment.TransactionResult, error) {
	o, err := s.repo.GetByID(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != params.UserID {
		return nil, ErrNotOrderOwner
	}
	if o.Status != StatusPending {
		return nil, ErrAlreadyPaid
	}

	txRef := utils.GenerateTxRef(o.ID)
	if err := s.repo.SetTxRef(ctx, o.ID, txRef); err != nil {
		return nil, err
	}

	result := s.dispatcher.Dispatch(ctx, payment.DispatchParams{
		Method: params.Method,
		Intent: payment.Intent{
			TxRef:    txRef,
			OrderID:  o.ID,
			Amount:   o.Total,
			Currency: "RWF",
			Customer: params.Customer,
		},
		Card: params.Card,
	})
	if result.Err != nil {
		return &result, result.Err
	}

	// inline paths settle immediately; hosted paths wait for callback
	if result.TransactionID != "" {
		if _, err := s.finalize(ctx, o, result.TransactionID); err != nil {
			return &result, err
		}
	}

	return &result, nil
}

// ----------------- Finalize -----------------

func (s *service) Finalize(ctx context.Context, orderID, userID uint, transactionID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return s.finalize(ctx, o, transactionID)
}

func (s *service) FinalizeByTxRef(ctx context.Context, txRef, transactionID string) (*Order, error) {
	o, err := s.repo.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, o, transactionID)
}

func (s *service) finalize(ctx context.Context, o *Order, transactionID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", o.ID),
		zap.String("transaction_id", transactionID),
	)

	if transactionID == "" {
		return nil, payment.ErrMissingTransaction
	}

	if o.Status == StatusProcessing {
		if o.PaymentRef != nil && *o.PaymentRef == transactionID {
			// repeated callback for the same payment
			return o, nil
		}
		return nil, ErrAlreadyPaid
	}
	if o.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.verifyPayment(ctx, o, transactionID); err != nil {
		log.Warn("Payment verification failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.MarkPaid(ctx, o.ID, transactionID); err != nil {
		return nil, err
	}

	prev := o.Status
	o.Status = StatusProcessing
	o.PaymentRef = &transactionID

	// best-effort side effects; never fail the finalize
	s.notifier.Notify(ctx, &notification.Notification{
		UserID:  o.UserID,
		Type:    notification.TypeOrderStatus,
		Title:   "Payment confirmed",
		Message: fmt.Sprintf("Your order #%d is now being processed.", o.ID),
		Payload: map[string]any{"order_id": o.ID, "status": string(o.Status)},
	})
	if err := s.carts.ClearCart(ctx, o.UserID); err != nil {
		log.Warn("Failed clearing cart after payment", zap.Error(err))
	}
	s.publishStatusChange(ctx, o, prev, nil)

	log.Info("Order finalized")
	return o, nil
}

func (s *service) verifyPayment(ctx context.Context, o *Order, transactionID string) error {
	switch o.PaymentMethod {
	case payment.MethodCard, payment.MethodMobileMoney:
		v, err := s.gateway.VerifyTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if !v.Successful() {
			return payment.ErrVerificationFailed
		}
		if o.TxRef != nil && v.TxRef != *o.TxRef {
			return fmt.Errorf("%w: reference mismatch", payment.ErrVerificationFailed)
		}
		if v.Amount < o.Total {
			return fmt.Errorf("%w: amount mismatch", payment.ErrVerificationFailed)
		}
		return nil

	case payment.MethodCrypto:
		confirmed, err := s.wallet.ConfirmTransfer(ctx, transactionID)
		if err != nil {
			return err
		}
		if !confirmed {
			return payment.ErrVerificationFailed
		}
		return nil

	case payment.MethodTestCard:
		if !strings.HasPrefix(transactionID, "test-") {
			return payment.ErrVerificationFailed
		}
		return nil

	default:
		return payment.ErrUnsupportedMethod
	}
}

func (s *service) RecordPaymentFailure(ctx context.Context, txRef string) error {
	o, err := s.repo.GetByTxRef(ctx, txRef)
	if err != nil {
		return err
	}

	// the order stays pending so the customer can retry payment
	s.notifier.Notify(ctx, &notification.Notification{
		UserID:  o.UserID,
		Type:    notification.TypeSystem,
		Title:   "Payment failed",
		Message: fmt.Sprintf("Payment for order #%d did not go through. You can try again from your orders page.", o.ID),
		Payload: map[string]any{"order_id": o.ID},
	})

	logger.FromCtx(ctx).Info("Recorded payment failure",
		zap.Uint("order_id", o.ID),
		zap.String("tx_ref", txRef))
	return nil
}

// ----------------- Status machine -----------------

func (s *service) UpdateStatus(ctx context.Context, orderID uint, status Status, trackingNumber *string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !status.Valid() || !CanTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}

	if status != StatusShipped {
		trackingNumber = nil
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status, trackingNumber); err != nil {
		return nil, err
	}

	prev := o.Status
	o.Status = status
	if trackingNumber != nil {
		o.TrackingNumber = trackingNumber
	}

	title, message := statusNotification(o)
	s.notifier.Notify(ctx, &notification.Notification{
		UserID:  o.UserID,
		Type:    notification.TypeOrderStatus,
		Title:   title,
		Message: message,
		Payload: map[string]any{"order_id": o.ID, "status": string(status)},
	})
	s.publishStatusChange(ctx, o, prev, trackingNumber)

	logger.FromCtx(ctx).Info("Order status updated",
		zap.Uint("order_id", o.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(status)))
	return o, nil
}

func statusNotification(o *Order) (title, message string) {
	switch o.Status {
	case StatusShipped:
		tracking := ""
		if o.TrackingNumber != nil {
			tracking = fmt.Sprintf(" Tracking number: %s.", *o.TrackingNumber)
		}
		return "Order shipped", fmt.Sprintf("Order #%d is on its way.%s", o.ID, tracking)
	case StatusDelivered:
		return "Order delivered", fmt.Sprintf("Order #%d has been delivered. Enjoy!", o.ID)
	case StatusCancelled:
		return "Order cancelled", fmt.Sprintf("Order #%d was cancelled.", o.ID)
	default:
		return "Order updated", fmt.Sprintf("Order #%d is now %s.", o.ID, o.Status)
	}
}

func (s *service) publishStatusChange(ctx context.Context, o *Order, from Status, tracking *string) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderStatusChanged{
		OrderID:    o.ID,
		UserID:     o.UserID,
		FromStatus: string(from),
		ToStatus:   string(o.Status),
		OccurredAt: s.now(),
	}
	if tracking != nil {
		evt.Tracking = *tracking
	}

	if err := s.publisher.Publish(ctx, fmt.Sprintf("order-%d", o.ID), evt); err != nil {
		logger.FromCtx(ctx).Warn("Failed publishing order status event",
			zap.Uint("order_id", o.ID),
			zap.Error(err))
	}
}

// ----------------- Queries -----------------

func (s *service) Get(ctx context.Context, orderID, userID uint, admin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}
