package coupon

import "time"

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
	DiscountFreeShip    DiscountType = "free_shipping"
)

// StandardShippingFee is the flat delivery fee credited back by
// free_shipping coupons.
const StandardShippingFee int64 = 1500

type Coupon struct {
	ID                uint
	Code              string // matched case-insensitively
	DiscountType      DiscountType
	DiscountValue     int64 // percent for percentage, RWF otherwise
	MinPurchaseAmount *int64
	MaxDiscountAmount *int64
	MaxUses           *int32
	CurrentUses       int32
	AppliesToCategory *uint
	Active            bool
	ValidFrom         time.Time
	ValidTo           time.Time
	CreatedAt         time.Time
}

// LineItem is the slice of an order the evaluator needs to apply
// category-restricted coupons.
type LineItem struct {
	ProductID  uint  `json:"product_id"`
	CategoryID uint  `json:"category_id"`
	UnitPrice  int64 `json:"unit_price"`
	Quantity   int32 `json:"quantity"`
}

type Validation struct {
	Valid          bool   `json:"valid"`
	DiscountAmount int64  `json:"discount_amount"`
	Message        string `json:"message,omitempty"`
}
