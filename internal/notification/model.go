package notification

import "time"

type Type string

const (
	TypeOrderStatus  Type = "order_status"
	TypeReturnStatus Type = "return_status"
	TypeSystem       Type = "system"
	TypePromotion    Type = "promotion"
)

type Notification struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"-"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Read      bool           `json:"read"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
