package usecase

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// PromotionUsecase validates promotional codes for carts and lets admins manage them.
type PromotionUsecase struct {
	repo     domain.PromotionRepository
	identity domain.Identity
	cache    cache.CacheService
	cfg      *config.Config
}

func NewPromotionUsecase(repo domain.PromotionRepository, identity domain.Identity, cache cache.CacheService, cfg *config.Config) *PromotionUsecase {
	return &PromotionUsecase{
		repo:     repo,
		identity: identity,
		cache:    cache,
		cfg:      cfg,
	}
}

func promotionKey(code string) string {
	return fmt.Sprintf("promotion:code:%s", code)
}

// Resolve looks a code up case-insensitively. Unknown and inactive codes both yield
// ErrInvalidPromotion.
func (u *PromotionUsecase) Resolve(ctx context.Context, code string) (*domain.Promotion, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		return nil, domain.ErrInvalidPromotion
	}

	promo, err := u.lookup(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidPromotion
		}
		return nil, fmt.Errorf("lookup promotion: %w", err)
	}
	if !promo.Valid {
		return nil, domain.ErrInvalidPromotion
	}
	return promo, nil
}

func (u *PromotionUsecase) lookup(ctx context.Context, code string) (*domain.Promotion, error) {
	key := promotionKey(code)
	if val, found := u.cache.Get(key); found {
		if p, ok := val.(*domain.Promotion); ok {
			return p, nil
		}
	}

	promo, err := u.repo.GetPromotion(ctx, code)
	if err != nil {
		return nil, err
	}
	u.cache.Set(key, promo, u.cfg.CachePromotionTTL)
	return promo, nil
}

// --- Admin ---

type CreatePromotionRequest struct {
	Code          string          `json:"code"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Valid         *bool           `json:"valid,omitempty"` // defaults to true
}

func (u *PromotionUsecase) CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*domain.Promotion, error) {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return nil, err
	}

	code := utils.NormalizeCode(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", domain.ErrInvalidPromotion)
	}
	if req.DiscountValue.IsNegative() {
		return nil, fmt.Errorf("%w: discount value must not be negative", domain.ErrInvalidPromotion)
	}

	if existing, err := u.repo.GetPromotion(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("promotion %q: %w", code, domain.ErrAlreadyExists)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup promotion: %w", err)
	}

	promo := &domain.Promotion{
		Code:          code,
		DiscountValue: req.DiscountValue,
		Valid:         req.Valid == nil || *req.Valid,
	}
	if err := u.repo.CreatePromotion(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	u.cache.Delete(promotionKey(code))
	return promo, nil
}

func (u *PromotionUsecase) ListPromotions(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.ListPromotions(ctx, limit, offset)
}

// SetValidity activates or deactivates a code. Carts that already hold the code keep it.
func (u *PromotionUsecase) SetValidity(ctx context.Context, code string, valid bool) error {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return err
	}
	code = utils.NormalizeCode(code)
	if err := u.repo.SetPromotionValidity(ctx, code, valid); err != nil {
		return err
	}
	u.cache.Delete(promotionKey(code))
	return nil
}

// requireAdmin gates admin operations on the caller's role.
func requireAdmin(ctx context.Context, identity domain.Identity) error {
	if _, ok := identity.CurrentUserID(ctx); !ok {
		return domain.ErrUnauthenticated
	}
	if identity.CurrentUserRole(ctx) != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
