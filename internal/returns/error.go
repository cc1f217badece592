package returns

import "errors"

var (
	ErrReturnNotFound    = errors.New("return request not found")
	ErrNotReturnable     = errors.New("order is not eligible for returns")
	ErrWindowClosed      = errors.New("return window has closed")
	ErrItemNotInOrder    = errors.New("product is not part of the order")
	ErrQuantityExceeded  = errors.New("return quantity exceeds ordered quantity")
	ErrInvalidReason     = errors.New("invalid return reason")
	ErrInvalidTransition = errors.New("invalid return status transition")
)
