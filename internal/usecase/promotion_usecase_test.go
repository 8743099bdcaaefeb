package usecase

import (
	"context"
	"testing"
	"time"

	"storefront-backend/internal/domain"
	memcache "storefront-backend/internal/infrastructure/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromotionUsecase(identity domain.Identity, repo *fakePromotions) *PromotionUsecase {
	return NewPromotionUsecase(repo, identity, memcache.NewMemoryCache(time.Hour, time.Hour), testConfig())
}

func TestPromotionUsecase_ResolveCachesLookups(t *testing.T) {
	repo := newFakePromotions(domain.Promotion{Code: "eid10", DiscountValue: decimal.NewFromInt(10), Valid: true})
	uc := newPromotionUsecase(customer(), repo)
	ctx := context.Background()

	for _, code := range []string{"EID10", "eid10", " Eid10"} {
		promo, err := uc.Resolve(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, "eid10", promo.Code)
	}
	assert.Equal(t, 1, repo.lookups)
}

func TestPromotionUsecase_AdminGate(t *testing.T) {
	ctx := context.Background()
	req := CreatePromotionRequest{Code: "eid20", DiscountValue: decimal.NewFromInt(20)}

	_, err := newPromotionUsecase(&fakeIdentity{}, newFakePromotions()).CreatePromotion(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = newPromotionUsecase(customer(), newFakePromotions()).CreatePromotion(ctx, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = newPromotionUsecase(customer(), newFakePromotions()).ListPromotions(ctx, 10, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = newPromotionUsecase(customer(), newFakePromotions()).SetValidity(ctx, "eid20", false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPromotionUsecase_CreatePromotion(t *testing.T) {
	repo := newFakePromotions()
	uc := newPromotionUsecase(admin(), repo)
	ctx := context.Background()

	promo, err := uc.CreatePromotion(ctx, CreatePromotionRequest{Code: " SUMMER ", DiscountValue: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, "summer", promo.Code)
	assert.True(t, promo.Valid)

	_, err = uc.CreatePromotion(ctx, CreatePromotionRequest{Code: "summer", DiscountValue: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = uc.CreatePromotion(ctx, CreatePromotionRequest{Code: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidPromotion)

	_, err = uc.CreatePromotion(ctx, CreatePromotionRequest{Code: "neg", DiscountValue: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidPromotion)

	inactive := false
	promo, err = uc.CreatePromotion(ctx, CreatePromotionRequest{Code: "later", DiscountValue: decimal.NewFromInt(5), Valid: &inactive})
	require.NoError(t, err)
	assert.False(t, promo.Valid)
}

func TestPromotionUsecase_SetValidityInvalidatesCache(t *testing.T) {
	repo := newFakePromotions(domain.Promotion{Code: "eid10", DiscountValue: decimal.NewFromInt(10), Valid: true})
	uc := newPromotionUsecase(admin(), repo)
	ctx := context.Background()

	_, err := uc.Resolve(ctx, "eid10")
	require.NoError(t, err)

	require.NoError(t, uc.SetValidity(ctx, "EID10", false))
	_, err = uc.Resolve(ctx, "eid10")
	assert.ErrorIs(t, err, domain.ErrInvalidPromotion)

	assert.ErrorIs(t, uc.SetValidity(ctx, "missing", true), domain.ErrNotFound)
}

func TestPromotionUsecase_ListPromotionsClampsLimit(t *testing.T) {
	repo := newFakePromotions()
	for i := 0; i < 25; i++ {
		code := string(rune('a'+i)) + "code"
		repo.promos[code] = &domain.Promotion{Code: code, Valid: true}
	}
	uc := newPromotionUsecase(admin(), repo)

	promos, err := uc.ListPromotions(context.Background(), 0, -3)
	require.NoError(t, err)
	assert.Len(t, promos, 20)
	assert.Equal(t, "acode", promos[0].Code)

	promos, err = uc.ListPromotions(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Len(t, promos, 5)
}
