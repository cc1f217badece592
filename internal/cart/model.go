package cart

import "time"

type CartItem struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"-"`
	ProductID uint      `json:"product_id"`
	Quantity  int32     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// joined product fields
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"` // discounted unit price
	CategoryID  uint   `json:"category_id"`
	Stock       int32  `json:"stock"`
	ImageURL    string `json:"image_url"`
}

// GuestItem is a line item from a locally persisted anonymous cart,
// pushed to the server on sign-in.
type GuestItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

// MergeStrategy controls what happens to the server cart when a guest
// cart is synced on sign-in.
type MergeStrategy string

const (
	// MergeAdditive sums quantities for duplicate products. Default.
	MergeAdditive MergeStrategy = "additive"
	// MergeReplace clears the server cart first (last-writer-wins).
	// Kept for clients that relied on the historical behavior.
	MergeReplace MergeStrategy = "replace"
)

type AddParams struct {
	UserID    uint
	ProductID uint
	Quantity  int32
}

type UpdateParams struct {
	UserID    uint
	ProductID uint
	Quantity  int32
}

type RemoveParams struct {
	UserID    uint
	ProductID uint
}
