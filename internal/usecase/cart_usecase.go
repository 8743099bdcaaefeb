package usecase

import (
	"context"
	"fmt"

	"storefront-backend/config"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"
)

// CartUsecase runs cart store operations against a shopper's session and prices the result.
type CartUsecase struct {
	sessions   *cart.SessionStore
	catalog    *CatalogUsecase
	promotions *PromotionUsecase
	calculator *pricing.Calculator
	cfg        *config.Config
}

func NewCartUsecase(sessions *cart.SessionStore, catalog *CatalogUsecase, promotions *PromotionUsecase, calculator *pricing.Calculator, cfg *config.Config) *CartUsecase {
	return &CartUsecase{
		sessions:   sessions,
		catalog:    catalog,
		promotions: promotions,
		calculator: calculator,
		cfg:        cfg,
	}
}

// CartView is a cart with its totals, as shown to the shopper.
type CartView struct {
	Items     []domain.LineItem        `json:"items"`
	Promotion *domain.AppliedPromotion `json:"promotion,omitempty"`
	ItemCount int                      `json:"itemCount"`
	Totals    pricing.Display          `json:"totals"`
}

// LineRequest names a line by product id, color and size.
type LineRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type AddItemRequest struct {
	LineRequest
	Quantity int `json:"quantity"`
}

func (u *CartUsecase) view(c domain.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartView{
		Items:     items,
		Promotion: c.Promotion,
		ItemCount: c.ItemCount(),
		Totals:    u.calculator.Totals(c).Display(),
	}
}

// current returns the session's cart without starting a session for read-only calls.
func (u *CartUsecase) current(sessionID string) domain.Cart {
	if sess, ok := u.sessions.Get(sessionID); ok {
		return sess.Cart()
	}
	return domain.Cart{}
}

func (u *CartUsecase) GetCart(sessionID string) CartView {
	return u.view(u.current(sessionID))
}

// Totals returns the exact totals of the session's cart.
func (u *CartUsecase) Totals(sessionID string) pricing.Totals {
	return u.calculator.Totals(u.current(sessionID))
}

// AddItem snapshots the product from the catalog and merges it into the cart.
func (u *CartUsecase) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (CartView, error) {
	if req.Quantity < 1 {
		return CartView{}, domain.ErrInvalidQuantity
	}
	if req.Quantity > u.cfg.MaxCartQuantity {
		return CartView{}, fmt.Errorf("%w: at most %d per line", domain.ErrInvalidQuantity, u.cfg.MaxCartQuantity)
	}

	product, err := u.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return CartView{}, err
	}
	ref := product.Ref()

	sess := u.sessions.GetOrCreate(sessionID)
	var tooMany bool
	c, err := sess.Update(func(c domain.Cart) domain.Cart {
		existing := 0
		if i := c.Find(domain.LineKey{ProductID: ref.ID, Color: req.Color, Size: req.Size}); i >= 0 {
			existing = c.Items[i].Quantity
		}
		if req.Quantity > u.cfg.MaxCartQuantity-existing {
			tooMany = true
			return c
		}
		return cart.AddItem(c, ref, req.Quantity, req.Color, req.Size)
	})
	if err != nil {
		return u.view(c), err
	}
	if tooMany {
		return u.view(c), fmt.Errorf("%w: at most %d per line", domain.ErrInvalidQuantity, u.cfg.MaxCartQuantity)
	}

	logger.WithContext(ctx).Debug().
		Str("product_id", ref.ID).
		Int("quantity", req.Quantity).
		Msg("Cart item added")
	return u.view(c), nil
}

func (u *CartUsecase) DecrementItem(sessionID string, req LineRequest) (CartView, error) {
	ref := domain.ProductRef{ID: req.ProductID}
	c, err := u.sessions.GetOrCreate(sessionID).Update(func(c domain.Cart) domain.Cart {
		return cart.DecrementItem(c, ref, req.Color, req.Size)
	})
	return u.view(c), err
}

func (u *CartUsecase) RemoveItem(sessionID string, req LineRequest) (CartView, error) {
	ref := domain.ProductRef{ID: req.ProductID}
	c, err := u.sessions.GetOrCreate(sessionID).Update(func(c domain.Cart) domain.Cart {
		return cart.RemoveItem(c, ref, req.Color, req.Size)
	})
	return u.view(c), err
}

func (u *CartUsecase) Clear(sessionID string) (CartView, error) {
	c, err := u.sessions.GetOrCreate(sessionID).Update(cart.Clear)
	return u.view(c), err
}

// ApplyPromotion validates the code before attaching it. On failure the cart keeps
// whatever promotion it had.
func (u *CartUsecase) ApplyPromotion(ctx context.Context, sessionID, code string) (CartView, error) {
	sess := u.sessions.GetOrCreate(sessionID)

	promo, err := u.promotions.Resolve(ctx, code)
	if err != nil {
		return u.view(sess.Cart()), err
	}

	c, err := sess.Update(func(c domain.Cart) domain.Cart {
		return cart.ApplyPromotion(c, promo.Code, promo.DiscountValue)
	})
	return u.view(c), err
}

func (u *CartUsecase) RemovePromotion(sessionID string) (CartView, error) {
	c, err := u.sessions.GetOrCreate(sessionID).Update(cart.RemovePromotion)
	return u.view(c), err
}

// SetAddress stores the checkout address after validating it.
func (u *CartUsecase) SetAddress(sessionID string, addr domain.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	u.sessions.GetOrCreate(sessionID).SetAddress(addr)
	return nil
}

func (u *CartUsecase) Address(sessionID string) domain.Address {
	if sess, ok := u.sessions.Get(sessionID); ok {
		return sess.Address()
	}
	return domain.Address{}
}
