package returns

import "time"

type Reason string

const (
	ReasonDamaged        Reason = "damaged"
	ReasonWrongItem      Reason = "wrong_item"
	ReasonNotAsDescribed Reason = "not_as_described"
	ReasonChangedMind    Reason = "changed_mind"
	ReasonDefective      Reason = "defective"
	ReasonOther          Reason = "other"
)

var validReasons = map[Reason]bool{
	ReasonDamaged:        true,
	ReasonWrongItem:      true,
	ReasonNotAsDescribed: true,
	ReasonChangedMind:    true,
	ReasonDefective:      true,
	ReasonOther:          true,
}

func (r Reason) Valid() bool {
	return validReasons[r]
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

var validTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted},
	StatusRejected:  {},
	StatusCompleted: {},
}

func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

type ReturnRequest struct {
	ID           uint       `json:"id"`
	OrderID      uint       `json:"order_id"`
	ProductID    uint       `json:"product_id"`
	UserID       uint       `json:"user_id"`
	Quantity     int32      `json:"quantity"`
	Reason       Reason     `json:"reason"`
	Description  *string    `json:"description,omitempty"`
	Status       Status     `json:"status"`
	RefundAmount *int64     `json:"refund_amount,omitempty"`
	AdminNotes   *string    `json:"admin_notes,omitempty"`
	RequestedAt  time.Time  `json:"requested_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

type CreateParams struct {
	OrderID     uint
	ProductID   uint
	UserID      uint
	Quantity    int32
	Reason      Reason
	Description *string
}

type DecisionParams struct {
	RequestID    uint
	Status       Status
	RefundAmount *int64
	AdminNotes   *string
}

// ReturnWindow is how long after placement a delivered order stays
// eligible for returns.
const ReturnWindow = 30 * 24 * time.Hour
