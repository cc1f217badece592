package coupon

import (
	"fmt"
	"time"
)

// Evaluate computes the discount a coupon grants against a subtotal.
// It is pure: no side effects, usage accounting happens at redemption.
func Evaluate(c *Coupon, now time.Time, subtotal int64, items []LineItem) Validation {
	if c == nil {
		return invalid("coupon not found")
	}
	if !c.Active {
		return invalid("this coupon is no longer active")
	}
	if now.Before(c.ValidFrom) {
		return invalid("this coupon is not valid yet")
	}
	if now.After(c.ValidTo) {
		return invalid("this coupon has expired")
	}
	if c.MinPurchaseAmount != nil && subtotal < *c.MinPurchaseAmount {
		return invalid(fmt.Sprintf(
			"order must be at least %d RWF to use this coupon", *c.MinPurchaseAmount,
		))
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return invalid("this coupon has reached its usage limit")
	}

	var discount int64
	switch c.DiscountType {
	case DiscountPercentage:
		base := subtotal
		if c.AppliesToCategory != nil {
			base = eligibleSubtotal(items, *c.AppliesToCategory)
		}
		discount = base * c.DiscountValue / 100
	case DiscountFixedAmount:
		discount = c.DiscountValue
	case DiscountFreeShip:
		discount = StandardShippingFee
	default:
		return invalid("unsupported discount type")
	}

	if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
		discount = *c.MaxDiscountAmount
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount <= 0 {
		return invalid("this coupon does not apply to any item in the order")
	}

	return Validation{
		Valid:          true,
		DiscountAmount: discount,
		Message:        fmt.Sprintf("coupon applied: %d RWF off", discount),
	}
}

func eligibleSubtotal(items []LineItem, categoryID uint) int64 {
	var sum int64
	for _, it := range items {
		if it.CategoryID == categoryID {
			sum += it.UnitPrice * int64(it.Quantity)
		}
	}
	return sum
}

func invalid(msg string) Validation {
	return Validation{Valid: false, Message: msg}
}
