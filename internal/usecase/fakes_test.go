package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

func testConfig() *config.Config {
	return &config.Config{
		ShippingBaseCost:     decimal.NewFromInt(300),
		MaxCartQuantity:      10,
		RequireVerifiedEmail: true,
		CacheProductTTL:      time.Minute,
		CachePromotionTTL:    time.Minute,
		CacheTotalsTTL:       time.Minute,
		CacheCategoryTTL:     time.Minute,
		CartSessionTTL:       time.Hour,
	}
}

// --- Identity ---

type fakeIdentity struct {
	userID   string
	verified bool
	role     domain.Role
}

func (f *fakeIdentity) CurrentUserID(context.Context) (string, bool) {
	return f.userID, f.userID != ""
}

func (f *fakeIdentity) IsEmailVerified(context.Context) bool { return f.verified }

func (f *fakeIdentity) CurrentUserRole(context.Context) domain.Role { return f.role }

func customer() *fakeIdentity {
	return &fakeIdentity{userID: "u-1", verified: true, role: domain.RoleUser}
}

func admin() *fakeIdentity {
	return &fakeIdentity{userID: "admin-1", verified: true, role: domain.RoleAdmin}
}

// --- Catalog ---

type fakeCatalog struct {
	products      map[string]*domain.Product
	calls         int
	categoryCalls int
	lastFilter    domain.ProductFilter
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[string]*domain.Product{}}
	for i := range products {
		f.products[products[i].ID] = &products[i]
	}
	return f
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	f.calls++
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	f.lastFilter = filter
	var out []domain.Product
	for _, p := range f.products {
		if filter.Category == "" || domain.CategoryID(p.Category) == filter.Category {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	f.categoryCalls++
	if len(f.products) == 0 {
		return nil, nil
	}
	return []domain.Category{{ID: "summer-wear", Name: "Summer Wear", ProductCount: len(f.products)}}, nil
}

// --- Promotions ---

type fakePromotions struct {
	promos  map[string]*domain.Promotion
	lookups int
}

func newFakePromotions(promos ...domain.Promotion) *fakePromotions {
	f := &fakePromotions{promos: map[string]*domain.Promotion{}}
	for i := range promos {
		f.promos[promos[i].Code] = &promos[i]
	}
	return f
}

func (f *fakePromotions) GetPromotion(_ context.Context, code string) (*domain.Promotion, error) {
	f.lookups++
	p, ok := f.promos[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromotions) CreatePromotion(_ context.Context, promo *domain.Promotion) error {
	if _, ok := f.promos[promo.Code]; ok {
		return domain.ErrAlreadyExists
	}
	promo.CreatedAt = time.Now()
	cp := *promo
	f.promos[promo.Code] = &cp
	return nil
}

func (f *fakePromotions) ListPromotions(_ context.Context, limit, offset int) ([]domain.Promotion, error) {
	out := []domain.Promotion{}
	for _, p := range f.promos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset >= len(out) {
		return []domain.Promotion{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePromotions) SetPromotionValidity(_ context.Context, code string, valid bool) error {
	p, ok := f.promos[code]
	if !ok {
		return domain.ErrNotFound
	}
	p.Valid = valid
	return nil
}

// --- Orders ---

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	history   []domain.OrderHistory
	created   int
	createErr error
	nextID    int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*domain.Order{}}
}

func (f *fakeOrders) CreateOrder(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	order.ID = fmt.Sprintf("order-%d", f.nextID)
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) GetByCustomerID(_ context.Context, customerID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetAll(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, o := range f.orders {
		if filter.Status == "" || string(o.Status) == filter.Status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) CreateOrderHistory(_ context.Context, h *domain.OrderHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = fmt.Sprintf("h-%d", len(f.history)+1)
	f.history = append(f.history, *h)
	return nil
}

func (f *fakeOrders) GetOrderHistory(_ context.Context, orderID string) ([]domain.OrderHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.OrderHistory{}
	for _, h := range f.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

// --- Inventory ---

type fakeInventory struct {
	mu         sync.Mutex
	stock      map[string]int
	decrements []string
	statuses   map[string]string
	failOn     string
}

func newFakeInventory(stock map[string]int) *fakeInventory {
	return &fakeInventory{stock: stock, statuses: map[string]string{}}
}

func (f *fakeInventory) DecrementStock(_ context.Context, productID string, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decrements = append(f.decrements, productID)
	if productID == f.failOn {
		return 0, domain.ErrInsufficientStock
	}
	f.stock[productID] -= qty
	return f.stock[productID], nil
}

func (f *fakeInventory) SetProductStatus(_ context.Context, productID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[productID] = status
	return nil
}

// --- Transactions ---

type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		f.rollbacks++
		return err
	}
	if err := fn(ctx); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// --- Post-order collaborators ---

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event domain.OrderEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Events() []domain.OrderEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.OrderEvent(nil), f.events...)
}

type fakeReceipts struct {
	mu    sync.Mutex
	saved []string
}

func (f *fakeReceipts) SaveReceipt(_ context.Context, order *domain.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, order.ID)
	return "https://cdn/receipts/" + order.ID + ".json", nil
}

type fakeConversions struct {
	mu      sync.Mutex
	tracked []string
}

func (f *fakeConversions) TrackPurchase(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked = append(f.tracked, order.ID)
	return errors.New("pixel offline")
}
