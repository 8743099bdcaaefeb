// Package pricing derives cart totals. Everything here is pure and uses exact decimals;
// rounding happens only when a value is formatted for display.
package pricing

import (
	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the priced view of a cart.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"freeShipping"`
}

// ComputeTotals prices a cart.
//
// A promotion value >= 100 waives shipping and takes nothing off the subtotal; a value
// below 100 is a percentage of the subtotal and shipping is charged. The same rule
// applies on every surface that shows totals.
func ComputeTotals(cart domain.Cart, shippingBaseCost decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range cart.Items {
		subtotal = subtotal.Add(line.LineTotal())
	}

	t := Totals{
		Subtotal:     subtotal,
		Discount:     decimal.Zero,
		ShippingCost: shippingBaseCost,
	}

	if p := cart.Promotion; p != nil {
		if p.IsAbsolute() {
			t.ShippingCost = decimal.Zero
			t.FreeShipping = true
		} else {
			t.Discount = subtotal.Mul(percentage(p.DiscountValue)).Div(hundred)
		}
	}

	t.Total = subtotal.Sub(t.Discount).Add(t.ShippingCost)
	if t.Total.IsNegative() {
		t.Total = decimal.Zero
	}
	return t
}

// percentage floors a percentage-mode value at zero. Values >= 100 never get here.
func percentage(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Display is Totals rendered with two fraction digits.
type Display struct {
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
	ShippingCost string `json:"shippingCost"`
	Total        string `json:"total"`
	FreeShipping bool   `json:"freeShipping"`
}

func (t Totals) Display() Display {
	return Display{
		Subtotal:     Format(t.Subtotal),
		Discount:     Format(t.Discount),
		ShippingCost: Format(t.ShippingCost),
		Total:        Format(t.Total),
		FreeShipping: t.FreeShipping,
	}
}

// Format renders an amount with two fraction digits, rounding half away from zero.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
