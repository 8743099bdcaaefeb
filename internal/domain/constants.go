package domain

import "github.com/shopspring/decimal"

// Order Statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Payment Methods
const (
	PaymentMethodCOD = "cash-on-delivery"
)

// Product Statuses
const (
	ProductStatusAvailable  = "available"
	ProductStatusOutOfStock = "out_of_stock"
)

// Roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DiscountAbsoluteThreshold splits promotion values between percentage mode (below)
// and absolute free-shipping mode (at or above).
var DiscountAbsoluteThreshold = decimal.NewFromInt(100)

// List Exports for API
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}
