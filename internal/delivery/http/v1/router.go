package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
)

// Router holds the v1 handlers and the per-route middleware that needs wiring from
// the outside.
type Router struct {
	Catalog         *CatalogHandler
	Cart            *CartHandler
	Checkout        *CheckoutHandler
	Orders          *OrderHandler
	AdminOrders     *AdminOrderHandler
	AdminPromotions *AdminPromotionHandler
	Health          *HealthHandler

	Session func(http.Handler) http.Handler
	Admin   func(http.Handler) http.Handler
}

func (rt Router) Register(mux *http.ServeMux) {
	// Shopper routes: anonymous allowed, tied to the cart session
	shopper := func(h http.HandlerFunc) http.Handler {
		return middleware.Authenticate(rt.Session(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(rt.Admin(h))
	}

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", rt.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", rt.Catalog.GetProduct)
	mux.HandleFunc("GET /api/v1/categories", rt.Catalog.ListCategories)

	// Cart
	mux.Handle("GET /api/v1/cart", shopper(rt.Cart.GetCart))
	mux.Handle("DELETE /api/v1/cart", shopper(rt.Cart.Clear))
	mux.Handle("POST /api/v1/cart/items", shopper(rt.Cart.AddItem))
	mux.Handle("POST /api/v1/cart/items/decrement", shopper(rt.Cart.DecrementItem))
	mux.Handle("DELETE /api/v1/cart/items", shopper(rt.Cart.RemoveItem))
	mux.Handle("POST /api/v1/cart/promotion", shopper(rt.Cart.ApplyPromotion))
	mux.Handle("DELETE /api/v1/cart/promotion", shopper(rt.Cart.RemovePromotion))

	// Checkout: the usecase decides between 401 and 403
	mux.Handle("GET /api/v1/checkout/address", shopper(rt.Checkout.GetAddress))
	mux.Handle("PUT /api/v1/checkout/address", shopper(rt.Checkout.SetAddress))
	mux.Handle("POST /api/v1/checkout", shopper(rt.Checkout.PlaceOrder))

	mux.Handle("GET /api/v1/orders", protected(rt.Orders.GetMyOrders))

	// Admin (Protected)
	mux.Handle("GET /api/v1/admin/orders", admin(rt.AdminOrders.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", admin(rt.AdminOrders.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", admin(rt.AdminOrders.UpdateStatus))
	mux.Handle("GET /api/v1/admin/orders/{id}/history", admin(rt.AdminOrders.GetHistory))

	mux.Handle("GET /api/v1/admin/promotions", admin(rt.AdminPromotions.ListPromotions))
	mux.Handle("POST /api/v1/admin/promotions", admin(rt.AdminPromotions.CreatePromotion))
	mux.Handle("PATCH /api/v1/admin/promotions/{code}/validity", admin(rt.AdminPromotions.SetValidity))

	// Health Check
	mux.HandleFunc("GET /api/v1/health", rt.Health.Health)
	mux.HandleFunc("GET /health", rt.Health.Health) // Support root health check for Load Balancers
}
