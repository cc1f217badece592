package product

import "time"

type Product struct {
	ID              uint              `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Price           int64             `json:"price"`            // RWF, no minor unit
	DiscountPercent int32             `json:"discount_percent"` // 0-100
	CategoryID      uint              `json:"category_id"`
	Stock           int32             `json:"stock"`
	InStock         bool              `json:"in_stock"`
	Featured        bool              `json:"featured"`
	New             bool              `json:"new"`
	Rating          float64           `json:"rating"` // derived from reviews
	Specifications  map[string]string `json:"specifications,omitempty"`
	ImageURL        string            `json:"image_url"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// DiscountedPrice is the effective unit price after the per-product
// discount. This is the price captured on order lines.
func (p *Product) DiscountedPrice() int64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	if p.DiscountPercent >= 100 {
		return 0
	}
	return p.Price - p.Price*int64(p.DiscountPercent)/100
}

type Review struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	UserID    uint      `json:"user_id"`
	Rating    int32     `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	Helpful   int32     `json:"helpful"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFilter struct {
	CategoryID *uint
	Featured   *bool
	New        *bool
	InStock    *bool
	Search     *string
}

type ListSort struct {
	Field     string // price | name | rating | created_at
	Ascending bool
}
