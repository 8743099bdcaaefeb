package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/metrics"
)

// CheckoutDeps are the collaborators of CheckoutUsecase. Events, Receipts and Conversions
// are optional.
type CheckoutDeps struct {
	Sessions   *cart.SessionStore
	Identity   domain.Identity
	Orders     domain.OrderRepository
	Inventory  domain.InventoryRepository
	TxManager  domain.TransactionManager
	Calculator *pricing.Calculator

	Events      domain.OrderEventPublisher
	Receipts    domain.ReceiptStore
	Conversions domain.ConversionTracker

	// OnStockChanged is called after commit for every product whose stock was decremented.
	OnStockChanged func(productID string)

	RequireVerifiedEmail bool
	SideEffectTimeout    time.Duration
}

// CheckoutUsecase turns a session's cart into a persisted order.
type CheckoutUsecase struct {
	deps CheckoutDeps
	wg   sync.WaitGroup
}

func NewCheckoutUsecase(deps CheckoutDeps) *CheckoutUsecase {
	if deps.SideEffectTimeout <= 0 {
		deps.SideEffectTimeout = 15 * time.Second
	}
	return &CheckoutUsecase{deps: deps}
}

// PlaceOrder validates the session's cart and address, prices the cart and persists the
// order together with the stock decrements in one transaction. On success the cart and
// address are cleared; on failure both are kept so the shopper can resubmit.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, sessionID string) (*domain.Order, error) {
	order, err := u.placeOrder(ctx, sessionID)
	metrics.RecordCheckout(checkoutOutcome(err))
	return order, err
}

func (u *CheckoutUsecase) placeOrder(ctx context.Context, sessionID string) (*domain.Order, error) {
	log := logger.WithContext(ctx)

	customerID, ok := u.deps.Identity.CurrentUserID(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if u.deps.RequireVerifiedEmail && !u.deps.Identity.IsEmailVerified(ctx) {
		return nil, domain.ErrEmailNotVerified
	}

	sess := u.deps.Sessions.GetOrCreate(sessionID)
	if !sess.TryBeginCheckout() {
		return nil, domain.ErrCheckoutInProgress
	}
	placed := false
	defer func() { sess.EndCheckout(placed) }()

	c := sess.Cart()
	if c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	addr := sess.Address()
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	totals := u.deps.Calculator.Totals(c)
	order := assembleOrder(customerID, c, addr, totals)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOrderCancelled, err)
	}

	err := u.deps.TxManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.deps.Orders.CreateOrder(txCtx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, item := range order.Items {
			remaining, err := u.deps.Inventory.DecrementStock(txCtx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock of %s: %w", item.ProductID, err)
			}
			if remaining <= 0 {
				if err := u.deps.Inventory.SetProductStatus(txCtx, item.ProductID, domain.ProductStatusOutOfStock); err != nil {
					return fmt.Errorf("mark %s out of stock: %w", item.ProductID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn().Err(err).Str("customer_id", customerID).Msg("Order submission cancelled")
			return nil, fmt.Errorf("%w: %w", domain.ErrOrderCancelled, ctxErr)
		}
		log.Error().Err(err).Str("customer_id", customerID).Msg("Order persistence failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrOrderPersistenceFailed, err)
	}

	placed = true
	log.Info().
		Str("order_id", order.ID).
		Str("customer_id", customerID).
		Str("total", order.Total.String()).
		Int("lines", len(order.Items)).
		Msg("Order placed")

	u.afterPlaced(ctx, order)
	return order, nil
}

// assembleOrder snapshots the cart at its current prices. The snapshot shares nothing with
// the cart, so later cart edits cannot reach the order.
func assembleOrder(customerID string, c domain.Cart, addr domain.Address, totals pricing.Totals) *domain.Order {
	items := make([]domain.OrderItem, len(c.Items))
	for i, line := range c.Items {
		items[i] = domain.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Color:     line.Color,
			Size:      line.Size,
		}
	}

	order := &domain.Order{
		CustomerID:      customerID,
		Items:           items,
		ShippingAddress: addr,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		ShippingCost:    totals.ShippingCost,
		Total:           totals.Total,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   domain.PaymentMethodCOD,
	}
	if c.Promotion != nil {
		order.PromotionCode = c.Promotion.Code
	}
	return order
}

// afterPlaced runs the post-commit steps in the background. Their failures are logged and
// counted but never reach the shopper.
func (u *CheckoutUsecase) afterPlaced(ctx context.Context, order *domain.Order) {
	revenue, _ := order.Total.Float64()
	metrics.RecordRevenue(revenue)

	if u.deps.OnStockChanged != nil {
		for _, item := range order.Items {
			u.deps.OnStockChanged(item.ProductID)
		}
	}

	snapshot := *order
	bg := context.WithoutCancel(ctx)

	u.goStep(bg, "event", func(ctx context.Context) error {
		if u.deps.Events == nil {
			return nil
		}
		return u.deps.Events.Publish(ctx, domain.OrderEvent{
			Type:       domain.OrderEventPlaced,
			OrderID:    snapshot.ID,
			CustomerID: snapshot.CustomerID,
			Status:     snapshot.Status,
			Total:      snapshot.Total,
			OccurredAt: time.Now(),
		})
	})
	u.goStep(bg, "receipt", func(ctx context.Context) error {
		if u.deps.Receipts == nil {
			return nil
		}
		url, err := u.deps.Receipts.SaveReceipt(ctx, &snapshot)
		if err == nil {
			logger.WithContext(ctx).Debug().Str("order_id", snapshot.ID).Str("url", url).Msg("Receipt archived")
		}
		return err
	})
	u.goStep(bg, "conversion", func(ctx context.Context) error {
		if u.deps.Conversions == nil {
			return nil
		}
		return u.deps.Conversions.TrackPurchase(ctx, &snapshot)
	})
}

func (u *CheckoutUsecase) goStep(ctx context.Context, step string, fn func(context.Context) error) {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		stepCtx, cancel := context.WithTimeout(ctx, u.deps.SideEffectTimeout)
		defer cancel()

		if err := fn(stepCtx); err != nil {
			metrics.RecordSideEffectFailure(step)
			logger.WithContext(ctx).Warn().Err(err).Str("step", step).Msg("Post-order step failed")
		}
	}()
}

// Wait blocks until in-flight post-order steps finish.
func (u *CheckoutUsecase) Wait() {
	u.wg.Wait()
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomePlaced
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return metrics.OutcomeInProgress
	case errors.Is(err, domain.ErrOrderCancelled):
		return metrics.OutcomeCancelled
	case errors.Is(err, domain.ErrOrderPersistenceFailed):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeRejected
	}
}
