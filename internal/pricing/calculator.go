package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"

	"github.com/shopspring/decimal"
)

// Calculator memoizes ComputeTotals by cart fingerprint. Results are identical to calling
// ComputeTotals directly.
type Calculator struct {
	shippingBaseCost decimal.Decimal
	cache            cache.CacheService
	ttl              time.Duration
}

func NewCalculator(shippingBaseCost decimal.Decimal, c cache.CacheService, ttl time.Duration) *Calculator {
	return &Calculator{
		shippingBaseCost: shippingBaseCost,
		cache:            c,
		ttl:              ttl,
	}
}

func (c *Calculator) ShippingBaseCost() decimal.Decimal {
	return c.shippingBaseCost
}

func (c *Calculator) Totals(cart domain.Cart) Totals {
	if c.cache == nil {
		return ComputeTotals(cart, c.shippingBaseCost)
	}

	key := "totals:" + Fingerprint(cart, c.shippingBaseCost)
	if v, ok := c.cache.Get(key); ok {
		if t, ok := v.(Totals); ok {
			return t
		}
	}

	t := ComputeTotals(cart, c.shippingBaseCost)
	c.cache.Set(key, t, c.ttl)
	return t
}

// Fingerprint hashes everything ComputeTotals reads. Line order is part of the hash, so
// reordered carts may miss the cache but still price the same.
func Fingerprint(cart domain.Cart, shippingBaseCost decimal.Decimal) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(shippingBaseCost.String())
	for _, line := range cart.Items {
		write(line.Product.ID)
		write(line.Product.Price.String())
		write(strconv.Itoa(line.Quantity))
		write(line.Color)
		write(line.Size)
	}
	if p := cart.Promotion; p != nil {
		write("promo")
		write(p.Code)
		write(p.DiscountValue.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}
