package event

import "time"

const (
	TopicOrderStatus  = "order-status"
	TopicReturnStatus = "return-status"
)

// OrderStatusChanged is published whenever an order moves between states.
type OrderStatusChanged struct {
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Tracking   string    `json:"tracking_number,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReturnStatusChanged is published on return request transitions.
type ReturnStatusChanged struct {
	ReturnID   uint      `json:"return_id"`
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
