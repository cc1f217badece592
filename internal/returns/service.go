package returns

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kivumart-be/internal/event"
	"kivumart-be/internal/logger"
	"kivumart-be/internal/notification"
	"kivumart-be/internal/order"
)

type Service interface {
	// Create files a return for one line of a delivered order. Rejected
	// outside the return window or beyond the ordered quantity.
	Create(ctx context.Context, params CreateParams) (*ReturnRequest, error)
	// Decide applies an admin approval or rejection.
	Decide(ctx context.Context, params DecisionParams) (*ReturnRequest, error)
	// Complete closes out an approved return once the refund is done.
	Complete(ctx context.Context, requestID uint) (*ReturnRequest, error)
	Get(ctx context.Context, requestID, userID uint, admin bool) (*ReturnRequest, error)
	List(ctx context.Context, userID uint) ([]*ReturnRequest, error)
	ListAll(ctx context.Context) ([]*ReturnRequest, error)
}

type service struct {
	repo      Repository
	orders    order.Service
	notifier  notification.Service
	publisher event.Publisher
	now       func() time.Time
}

func NewService(repo Repository, orders order.Service, notifier notification.Service, publisher event.Publisher) Service {
	return &service{
		repo:      repo,
		orders:    orders,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
	}
}

// CanReturn reports return eligibility: delivered, and within the
// return window measured from order placement.
func CanReturn(o *order.Order, now time.Time) bool {
	return o.Status == order.StatusDelivered && now.Sub(o.CreatedAt) <= ReturnWindow
}

func (s *service) Create(ctx context.Context, params CreateParams) (*ReturnRequest, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", params.OrderID),
		zap.Uint("user_id", params.UserID),
	)

	if !params.Reason.Valid() {
		return nil, ErrInvalidReason
	}
	if params.Quantity <= 0 {
		return nil, ErrQuantityExceeded
	}

	o, err := s.orders.Get(ctx, params.OrderID, params.UserID, false)
	if err != nil {
		return nil, err
	}

	if o.Status != order.StatusDelivered {
		return nil, ErrNotReturnable
	}
	if !CanReturn(o, s.now()) {
		return nil, ErrWindowClosed
	}

	var ordered int32
	for _, item := range o.Items {
		if item.ProductID == params.ProductID {
			ordered = item.Quantity
			break
		}
	}
	if ordered == 0 {
		return nil, ErrItemNotInOrder
	}

	already, err := s.repo.ReturnedQuantity(ctx, params.OrderID, params.ProductID)
	if err != nil {
		return nil, err
	}
	if params.Quantity+already > ordered {
		return nil, ErrQuantityExceeded
	}

	req := &ReturnRequest{
		OrderID:     params.OrderID,
		ProductID:   params.ProductID,
		UserID:      params.UserID,
		Quantity:    params.Quantity,
		Reason:      params.Reason,
		Description: params.Description,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, &notification.Notification{
		UserID:  params.UserID,
		Type:    notification.TypeReturnStatus,
		Title:   "Return request received",
		Message: fmt.Sprintf("We received your return request for order #%d and will review it shortly.", params.OrderID),
		Payload: map[string]any{"return_id": req.ID, "order_id": params.OrderID},
	})

	log.Info("Return request created", zap.Uint("return_id", req.ID))
	return req, nil
}

func (s *service) Decide(ctx context.Context, params DecisionParams) (*ReturnRequest, error) {
	if params.Status != StatusApproved && params.Status != StatusRejected {
		return nil, ErrInvalidTransition
	}

	req, err := s.repo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(req.Status, params.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, params.Status)
	}

	if params.Status == StatusRejected {
		params.RefundAmount = nil
	}
	if err := s.repo.UpdateDecision(ctx, params); err != nil {
		return nil, err
	}

	prev := req.Status
	req.Status = params.Status
	req.RefundAmount = params.RefundAmount
	req.AdminNotes = params.AdminNotes
	now := s.now()
	req.DecidedAt = &now

	s.notifyTransition(ctx, req)
	s.publishTransition(ctx, req, prev)

	logger.FromCtx(ctx).Info("Return request decided",
		zap.Uint("return_id", req.ID),
		zap.String("status", string(req.Status)))
	return req, nil
}

func (s *service) Complete(ctx context.Context, requestID uint) (*ReturnRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(req.Status, StatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, StatusCompleted)
	}

	if err := s.repo.Complete(ctx, requestID); err != nil {
		return nil, err
	}

	prev := req.Status
	req.Status = StatusCompleted
	s.notifyTransition(ctx, req)
	s.publishTransition(ctx, req, prev)

	return req, nil
}

func (s *service) notifyTransition(ctx context.Context, req *ReturnRequest) {
	var title, message string
	switch req.Status {
	case StatusApproved:
		refund := ""
		if req.RefundAmount != nil {
			refund = fmt.Sprintf(" A refund of %d RWF will be issued.", *req.RefundAmount)
		}
		title = "Return approved"
		message = fmt.Sprintf("Your return for order #%d was approved.%s", req.OrderID, refund)
	case StatusRejected:
		title = "Return rejected"
		message = fmt.Sprintf("Your return for order #%d was not approved.", req.OrderID)
	case StatusCompleted:
		title = "Return completed"
		message = fmt.Sprintf("Your return for order #%d is complete.", req.OrderID)
	default:
		return
	}

	s.notifier.Notify(ctx, &notification.Notification{
		UserID:  req.UserID,
		Type:    notification.TypeReturnStatus,
		Title:   title,
		Message: message,
		Payload: map[string]any{"return_id": req.ID, "order_id": req.OrderID, "status": string(req.Status)},
	})
}

func (s *service) publishTransition(ctx context.Context, req *ReturnRequest, from Status) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, fmt.Sprintf("return-%d", req.ID), event.ReturnStatusChanged{
		ReturnID:   req.ID,
		OrderID:    req.OrderID,
		UserID:     req.UserID,
		FromStatus: string(from),
		ToStatus:   string(req.Status),
		OccurredAt: s.now(),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("Failed publishing return status event",
			zap.Uint("return_id", req.ID),
			zap.Error(err))
	}
}

func (s *service) Get(ctx context.Context, requestID, userID uint, admin bool) (*ReturnRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !admin && req.UserID != userID {
		return nil, ErrReturnNotFound
	}
	return req, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]*ReturnRequest, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]*ReturnRequest, error) {
	return s.repo.ListAll(ctx)
}
