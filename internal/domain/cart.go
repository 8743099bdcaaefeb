package domain

import "github.com/shopspring/decimal"

// --- Cart Entities ---

// ProductRef is the catalog snapshot a line item carries, captured when the item is added.
type ProductRef struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// LineKey identifies a line item. Two items with the same key are always merged.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

type LineItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Color    string     `json:"color,omitempty"`
	Size     string     `json:"size,omitempty"`
}

func (li LineItem) Key() LineKey {
	return LineKey{ProductID: li.Product.ID, Color: li.Color, Size: li.Size}
}

// LineTotal is price x quantity for the line.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// AppliedPromotion is the promotional code attached to a cart.
// DiscountValue >= DiscountAbsoluteThreshold is an absolute amount that waives shipping,
// anything below is a percentage of the subtotal.
type AppliedPromotion struct {
	Code          string          `json:"code"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// IsAbsolute reports whether the promotion is in absolute (free shipping) mode.
func (p AppliedPromotion) IsAbsolute() bool {
	return p.DiscountValue.GreaterThanOrEqual(DiscountAbsoluteThreshold)
}

// Cart holds ordered line items. Order matters for display only.
type Cart struct {
	Items     []LineItem        `json:"items"`
	Promotion *AppliedPromotion `json:"promotion,omitempty"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units in the cart.
func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Find returns the index of the line with the given key, or -1.
func (c Cart) Find(key LineKey) int {
	for i, item := range c.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
