package coupon

import (
	"context"
	"errors"
	"time"

	"kivumart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Validate checks a raw code against a subtotal. Never trusts any
	// client-side validation: callers re-run this at order creation.
	Validate(ctx context.Context, code string, subtotal int64, items []LineItem) (*Coupon, Validation, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Validate(
	ctx context.Context,
	code string,
	subtotal int64,
	items []LineItem,
) (*Coupon, Validation, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Validate"),
		zap.String("code", code),
		zap.Int64("subtotal", subtotal),
	)

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, invalid("invalid coupon code"), nil
		}
		log.Error("failed to load coupon", zap.Error(err))
		return nil, Validation{}, err
	}

	v := Evaluate(c, s.now(), subtotal, items)
	if !v.Valid {
		log.Info("coupon rejected", zap.String("reason", v.Message))
	}

	return c, v, nil
}
