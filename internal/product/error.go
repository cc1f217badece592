package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound    = errors.New("review not found")
)
