package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidCoupon     = errors.New("coupon cannot be applied")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAlreadyPaid       = errors.New("order has already been paid")
	ErrDuplicateKey      = errors.New("idempotency key already used")
)
