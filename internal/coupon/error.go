package coupon

import "errors"

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponNotYet    = errors.New("coupon is not valid yet")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrBelowMinimum    = errors.New("order total is below the coupon minimum")
	ErrUsageExhausted  = errors.New("coupon usage limit reached")
	ErrAlreadyRedeemed = errors.New("coupon already redeemed for this order")
)
