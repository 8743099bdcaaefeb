package pricing

import (
	"testing"
	"time"

	"storefront-backend/internal/domain"
	memcache "storefront-backend/internal/infrastructure/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var shipping = decimal.NewFromInt(300)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(id, price string, qty int) domain.LineItem {
	return domain.LineItem{
		Product:  domain.ProductRef{ID: id, Name: id, Price: dec(price)},
		Quantity: qty,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := ComputeTotals(domain.Cart{}, shipping)

	assertDecimal(t, "0", got.Subtotal, "subtotal")
	assertDecimal(t, "0", got.Discount, "discount")
	assertDecimal(t, "300", got.Total, "total")
}

func TestComputeTotals_EmptyCartWithFreeShippingPromotion(t *testing.T) {
	c := domain.Cart{Promotion: &domain.AppliedPromotion{Code: "free", DiscountValue: dec("300")}}
	got := ComputeTotals(c, shipping)

	assertDecimal(t, "0", got.Total, "total")
	assert.True(t, got.FreeShipping)
}

func TestComputeTotals_NoPromotion(t *testing.T) {
	c := domain.Cart{Items: []domain.LineItem{line("p1", "1000", 2)}}
	got := ComputeTotals(c, shipping)

	assertDecimal(t, "2000", got.Subtotal, "subtotal")
	assertDecimal(t, "0", got.Discount, "discount")
	assertDecimal(t, "300", got.ShippingCost, "shipping")
	assertDecimal(t, "2300", got.Total, "total")
	assert.False(t, got.FreeShipping)
}

func TestComputeTotals_PercentageMode(t *testing.T) {
	c := domain.Cart{
		Items:     []domain.LineItem{line("p1", "1000", 1)},
		Promotion: &domain.AppliedPromotion{Code: "eid10", DiscountValue: dec("10")},
	}
	got := ComputeTotals(c, shipping)

	assertDecimal(t, "100", got.Discount, "discount")
	assertDecimal(t, "1200", got.Total, "total")
}

func TestComputeTotals_AbsoluteModeWaivesShipping(t *testing.T) {
	c := domain.Cart{
		Items:     []domain.LineItem{line("p1", "1000", 2)},
		Promotion: &domain.AppliedPromotion{Code: "free", DiscountValue: dec("300")},
	}
	got := ComputeTotals(c, shipping)

	assertDecimal(t, "0", got.ShippingCost, "shipping")
	assertDecimal(t, "0", got.Discount, "discount")
	assertDecimal(t, "2000", got.Total, "total")
}

func TestComputeTotals_ThresholdBoundary(t *testing.T) {
	base := []domain.LineItem{line("p1", "1000", 1)}

	tests := []struct {
		value        string
		wantDiscount string
		wantTotal    string
	}{
		{"0", "0", "1300"},
		{"99.99", "999.9", "300.1"},
		{"100", "0", "1000"},
		{"-5", "0", "1300"},
	}
	for _, tt := range tests {
		c := domain.Cart{Items: base, Promotion: &domain.AppliedPromotion{Code: "x", DiscountValue: dec(tt.value)}}
		got := ComputeTotals(c, shipping)
		assertDecimal(t, tt.wantDiscount, got.Discount, "discount@"+tt.value)
		assertDecimal(t, tt.wantTotal, got.Total, "total@"+tt.value)
	}
}

func TestComputeTotals_NoBinaryFloatDrift(t *testing.T) {
	c := domain.Cart{Items: []domain.LineItem{
		line("a", "0.1", 1),
		line("b", "0.2", 1),
	}}
	got := ComputeTotals(c, decimal.Zero)

	assertDecimal(t, "0.3", got.Subtotal, "subtotal")
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	items := []domain.LineItem{
		line("a", "199.99", 3),
		line("b", "15.50", 1),
		line("c", "1200", 2),
	}
	promo := &domain.AppliedPromotion{Code: "p", DiscountValue: dec("12.5")}

	forward := ComputeTotals(domain.Cart{Items: items, Promotion: promo}, shipping)
	reversed := ComputeTotals(domain.Cart{
		Items:     []domain.LineItem{items[2], items[0], items[1]},
		Promotion: promo,
	}, shipping)

	assert.True(t, forward.Subtotal.Equal(reversed.Subtotal))
	assert.True(t, forward.Discount.Equal(reversed.Discount))
	assert.True(t, forward.Total.Equal(reversed.Total))
}

func TestComputeTotals_FloorsAtZero(t *testing.T) {
	got := ComputeTotals(domain.Cart{}, dec("-50"))
	assertDecimal(t, "0", got.Total, "total")
}

func TestDisplay_RoundsOnlyAtPresentation(t *testing.T) {
	c := domain.Cart{
		Items:     []domain.LineItem{line("p1", "0.99", 1)},
		Promotion: &domain.AppliedPromotion{Code: "p", DiscountValue: dec("12.5")},
	}
	got := ComputeTotals(c, decimal.Zero)

	assertDecimal(t, "0.12375", got.Discount, "discount kept exact")
	d := got.Display()
	assert.Equal(t, "0.12", d.Discount)
	assert.Equal(t, "0.87", d.Total)
	assert.Equal(t, "0.99", d.Subtotal)
}

func TestCalculator_MatchesComputeTotals(t *testing.T) {
	calc := NewCalculator(shipping, memcache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	c := domain.Cart{
		Items:     []domain.LineItem{line("p1", "1000", 1)},
		Promotion: &domain.AppliedPromotion{Code: "eid10", DiscountValue: dec("10")},
	}

	first := calc.Totals(c)
	second := calc.Totals(c)
	direct := ComputeTotals(c, shipping)

	assert.Equal(t, direct, first)
	assert.Equal(t, first, second)
}

func TestCalculator_WithoutCache(t *testing.T) {
	calc := NewCalculator(shipping, nil, 0)
	got := calc.Totals(domain.Cart{Items: []domain.LineItem{line("p1", "1000", 2)}})
	assertDecimal(t, "2300", got.Total, "total")
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a := domain.Cart{Items: []domain.LineItem{line("p1", "1000", 1)}}
	b := domain.Cart{Items: []domain.LineItem{line("p1", "1000", 2)}}
	withPromo := domain.Cart{Items: a.Items, Promotion: &domain.AppliedPromotion{Code: "x", DiscountValue: dec("5")}}

	assert.Equal(t, Fingerprint(a, shipping), Fingerprint(a, shipping))
	assert.NotEqual(t, Fingerprint(a, shipping), Fingerprint(b, shipping))
	assert.NotEqual(t, Fingerprint(a, shipping), Fingerprint(withPromo, shipping))
	assert.NotEqual(t, Fingerprint(a, shipping), Fingerprint(a, decimal.Zero))
}
