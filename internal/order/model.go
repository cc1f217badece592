package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"kivumart-be/internal/payment"
)

type Order struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"user_id"`
	Items          []OrderItem     `json:"items"`
	Address        ShippingAddress `json:"address"`
	Subtotal       int64           `json:"subtotal"` // RWF, before discount
	Discount       int64           `json:"discount"`
	Total          int64           `json:"total"` // fixed at creation, never recomputed
	Status         Status          `json:"status"`
	CouponCode     *string         `json:"coupon_code,omitempty"`
	TrackingNumber *string         `json:"tracking_number,omitempty"`
	PaymentMethod  payment.Method  `json:"payment_method"`
	TxRef          *string         `json:"-"`                     // provider reference issued at dispatch
	PaymentRef     *string         `json:"payment_ref,omitempty"` // transaction id or hash recorded at finalize
	IdempotencyKey string          `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderItem captures the unit price at purchase time; later product
// price changes never affect an existing order.
type OrderItem struct {
	ID        uint   `json:"id"`
	OrderID   uint   `json:"-"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan accepts both JSON-shaped addresses and legacy rows that stored
// the whole address as one string, which land in Line1.
func (a *ShippingAddress) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*a = ShippingAddress{}
		return nil
	default:
		return fmt.Errorf("unsupported shipping address type %T", src)
	}

	if err := json.Unmarshal(raw, a); err != nil {
		*a = ShippingAddress{Line1: string(raw)}
	}
	return nil
}

type CreateItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type CreateParams struct {
	UserID         uint
	Items          []CreateItem
	Address        ShippingAddress
	PaymentMethod  payment.Method
	CouponCode     string
	IdempotencyKey string
}

type PayParams struct {
	OrderID  uint
	UserID   uint
	Method   payment.Method
	Customer payment.Customer
	Card     *payment.CardDetails
}
