package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/metrics"
)

// OrderUsecase serves order listings and the admin status workflow.
type OrderUsecase struct {
	orderRepo domain.OrderRepository
	txManager domain.TransactionManager
	identity  domain.Identity
	events    domain.OrderEventPublisher
}

// NewOrderUsecase accepts a nil publisher.
func NewOrderUsecase(repo domain.OrderRepository, txManager domain.TransactionManager, identity domain.Identity, events domain.OrderEventPublisher) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: repo,
		txManager: txManager,
		identity:  identity,
		events:    events,
	}
}

// GetMyOrders lists the signed-in customer's orders, newest first.
func (u *OrderUsecase) GetMyOrders(ctx context.Context) ([]domain.Order, error) {
	customerID, ok := u.identity.CurrentUserID(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u.orderRepo.GetByCustomerID(ctx, customerID)
}

// --- Admin Usecase ---

func (u *OrderUsecase) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return nil, 0, err
	}

	filter = filter.Normalized()
	if filter.Status != "" {
		status, err := domain.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = string(status)
	}
	return u.orderRepo.GetAll(ctx, filter)
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return nil, err
	}
	return u.orderRepo.GetByID(ctx, id)
}

func (u *OrderUsecase) GetOrderHistory(ctx context.Context, id string) ([]domain.OrderHistory, error) {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return nil, err
	}
	if _, err := u.orderRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return u.orderRepo.GetOrderHistory(ctx, id)
}

// UpdateOrderStatus sets any known status; admins may move an order freely, including
// back to an earlier status. Every change is recorded in the order history.
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID, newStatus, note string) (*domain.Order, error) {
	if err := requireAdmin(ctx, u.identity); err != nil {
		return nil, err
	}
	actorID, _ := u.identity.CurrentUserID(ctx)

	status, err := domain.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, err
	}

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	oldStatus := order.Status

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.UpdateStatus(txCtx, orderID, status); err != nil {
			return err
		}

		reason := strings.TrimSpace(note)
		if reason == "" {
			reason = fmt.Sprintf("System: Status changed from %s to %s", oldStatus, status)
		}
		history := domain.OrderHistory{
			OrderID:        orderID,
			PreviousStatus: oldStatus,
			NewStatus:      status,
			Note:           reason,
			CreatedBy:      actorID,
		}
		if err := u.orderRepo.CreateOrderHistory(txCtx, &history); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}
		return nil
	})
	metrics.RecordOrderOperation("update_status", err == nil)
	if err != nil {
		return nil, err
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	logger.WithContext(ctx).Info().
		Str("order_id", orderID).
		Str("from", string(oldStatus)).
		Str("to", string(status)).
		Str("actor", actorID).
		Msg("Order status changed")

	if u.events != nil {
		event := domain.OrderEvent{
			Type:       domain.OrderEventStatusChanged,
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Status:     status,
			Total:      order.Total,
			OccurredAt: order.UpdatedAt,
		}
		if err := u.events.Publish(ctx, event); err != nil {
			metrics.RecordSideEffectFailure("event")
			logger.WithContext(ctx).Warn().Err(err).Str("order_id", orderID).Msg("Failed to publish status change")
		}
	}
	return order, nil
}
