// Package cart holds the cart store: pure operations over domain.Cart values and the
// per-session state container that applies them.
package cart

import (
	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Every operation returns a new Cart and leaves its input untouched.

// AddItem merges quantity into the line with the same key, or appends a new line.
// Callers guarantee quantity >= 1.
func AddItem(c domain.Cart, product domain.ProductRef, quantity int, color, size string) domain.Cart {
	next := clone(c)
	key := domain.LineKey{ProductID: product.ID, Color: color, Size: size}

	if i := next.Find(key); i >= 0 {
		next.Items[i].Quantity += quantity
		return next
	}

	next.Items = append(next.Items, domain.LineItem{
		Product:  product,
		Quantity: quantity,
		Color:    color,
		Size:     size,
	})
	return next
}

// DecrementItem lowers the matching line by one, removing it when it reaches zero.
func DecrementItem(c domain.Cart, product domain.ProductRef, color, size string) domain.Cart {
	i := c.Find(domain.LineKey{ProductID: product.ID, Color: color, Size: size})
	if i < 0 {
		return c
	}
	if c.Items[i].Quantity <= 1 {
		return without(c, i)
	}

	next := clone(c)
	next.Items[i].Quantity--
	return next
}

// RemoveItem drops the matching line regardless of quantity.
func RemoveItem(c domain.Cart, product domain.ProductRef, color, size string) domain.Cart {
	i := c.Find(domain.LineKey{ProductID: product.ID, Color: color, Size: size})
	if i < 0 {
		return c
	}
	return without(c, i)
}

// Clear empties the cart and detaches any promotion.
func Clear(domain.Cart) domain.Cart {
	return domain.Cart{}
}

// ApplyPromotion attaches the code as-is. Validation happens before this is called.
func ApplyPromotion(c domain.Cart, code string, discountValue decimal.Decimal) domain.Cart {
	next := clone(c)
	next.Promotion = &domain.AppliedPromotion{Code: code, DiscountValue: discountValue}
	return next
}

func RemovePromotion(c domain.Cart) domain.Cart {
	next := clone(c)
	next.Promotion = nil
	return next
}

func clone(c domain.Cart) domain.Cart {
	next := domain.Cart{}
	if len(c.Items) > 0 {
		next.Items = make([]domain.LineItem, len(c.Items))
		copy(next.Items, c.Items)
	}
	if c.Promotion != nil {
		p := *c.Promotion
		next.Promotion = &p
	}
	return next
}

func without(c domain.Cart, i int) domain.Cart {
	next := clone(c)
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	if len(next.Items) == 0 {
		next.Items = nil
	}
	return next
}
