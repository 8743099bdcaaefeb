package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"` // available, out_of_stock
	Category    string          `json:"category"`
	Rating      ProductRating   `json:"rating"`
	Colors      []string        `json:"colors"`
	Sizes       []string        `json:"sizes"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Ref captures the fields a cart line keeps from the catalog.
func (p Product) Ref() ProductRef {
	return ProductRef{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
}

type ProductRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// --- Categories ---

// Category is derived from the products that name it.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}

// CategoryID turns a category name into its URL form, e.g. "Summer Wear" -> "summer-wear".
func CategoryID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

type ProductFilter struct {
	Page     int
	Limit    int
	Category string // id or name; "all" means no filter
	Search   string
	InStock  bool
}

// Normalized clamps paging like OrderFilter and reduces Category to its id.
func (f ProductFilter) Normalized() ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	f.Category = CategoryID(f.Category)
	if f.Category == "all" {
		f.Category = ""
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// --- Interfaces ---

type CatalogRepository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	// ListProducts returns one page of products and the total matching the filter.
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	// ListCategories returns every non-empty category with its product count, sorted by name.
	ListCategories(ctx context.Context) ([]Category, error)
}

// InventoryRepository adjusts stock as part of order placement.
type InventoryRepository interface {
	// DecrementStock subtracts quantity and returns the remaining stock.
	DecrementStock(ctx context.Context, productID string, quantity int) (int, error)
	SetProductStatus(ctx context.Context, productID, status string) error
}
