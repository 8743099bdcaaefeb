package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is a promotional code as stored by the catalog owner.
type Promotion struct {
	Code          string          `json:"code"` // stored lower-case
	DiscountValue decimal.Decimal `json:"discountValue"`
	Valid         bool            `json:"valid"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type PromotionRepository interface {
	// GetPromotion looks a code up exactly; callers normalize to lower-case first.
	GetPromotion(ctx context.Context, code string) (*Promotion, error)
	CreatePromotion(ctx context.Context, promo *Promotion) error
	ListPromotions(ctx context.Context, limit, offset int) ([]Promotion, error)
	SetPromotionValidity(ctx context.Context, code string, valid bool) error
}
