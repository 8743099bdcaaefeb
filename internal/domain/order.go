package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// ParseOrderStatus accepts any known status, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range OrderStatuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

type OrderFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// Normalized clamps paging to page >= 1 and 1 <= limit <= 100 (default 20).
func (f OrderFilter) Normalized() OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// --- Address ---

type Address struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	ZipCode     string `json:"zipCode,omitempty"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phoneNumber"`
}

// Validate reports every required field that is blank after trimming.
func (a Address) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"address1", a.Address1},
		{"city", a.City},
		{"country", a.Country},
		{"phoneNumber", a.PhoneNumber},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &AddressError{Fields: missing}
	}
	return nil
}

// --- Order Entities ---

type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress Address         `json:"shippingAddress"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	Total           decimal.Decimal `json:"total"`
	PromotionCode   string          `json:"promotionCode,omitempty"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is the price-locked snapshot of a cart line.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"` // Price at time of purchase
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
}

type OrderHistory struct {
	ID             string      `json:"id"`
	OrderID        string      `json:"orderId"`
	PreviousStatus OrderStatus `json:"previousStatus"`
	NewStatus      OrderStatus `json:"newStatus"`
	Note           string      `json:"note,omitempty"`
	CreatedBy      string      `json:"createdBy"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// OrderEvent is published after an order is placed or changes status.
type OrderEvent struct {
	Type       string          `json:"type"` // order.placed, order.status_changed
	OrderID    string          `json:"orderId"`
	CustomerID string          `json:"customerId"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurredAt"`
}

const (
	OrderEventPlaced        = "order.placed"
	OrderEventStatusChanged = "order.status_changed"
)

// --- Interfaces ---

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrderRepository interface {
	// CreateOrder persists the order and its items and sets the assigned ID and timestamps.
	CreateOrder(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error

	CreateOrderHistory(ctx context.Context, history *OrderHistory) error
	GetOrderHistory(ctx context.Context, orderID string) ([]OrderHistory, error)
}

type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// ReceiptStore archives a placed order outside the database.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, order *Order) (string, error)
}

// ConversionTracker reports a placed order to an ad platform.
type ConversionTracker interface {
	TrackPurchase(ctx context.Context, order *Order) error
}
