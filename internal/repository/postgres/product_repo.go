package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ProductRepository serves catalog lookups and the stock side of order placement.
type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

var (
	_ domain.CatalogRepository   = (*ProductRepository)(nil)
	_ domain.InventoryRepository = (*ProductRepository)(nil)
)

const productColumns = `id, name, description, price, stock, status, category, rating_rate, rating_count,
colors, sizes, images, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price pgtype.Numeric
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &price, &p.Stock, &p.Status, &p.Category,
		&p.Rating.Rate, &p.Rating.Count, &p.Colors, &p.Sizes, &p.Images, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if p.Price, err = numericToDecimal(price); err != nil {
		return nil, fmt.Errorf("product %s price: %w", p.ID, err)
	}
	return &p, nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(querier(ctx, r.db).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// categoryIDExpr mirrors domain.CategoryID in SQL.
const categoryIDExpr = `regexp_replace(lower(trim(category)), '\s+', '-', 'g')`

// productFilterClause builds the WHERE clause shared by the product list and its count.
// The filter is expected to be normalized.
func productFilterClause(filter domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("%s = $%d", categoryIDExpr, len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%[1]d OR category ILIKE $%[1]d)", len(args)))
	}
	if filter.InStock {
		conds = append(conds, fmt.Sprintf("status = '%s' AND stock > 0", domain.ProductStatusAvailable))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *ProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	filter = filter.Normalized()
	limit := filter.Limit
	offset := (filter.Page - 1) * limit

	q := querier(ctx, r.db)
	where, args := productFilterClause(filter)

	var count int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]any{}, args...), limit, offset)
	sql := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)

	rows, err := q.Query(ctx, sql, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, count, rows.Err()
}

const listCategories = `
SELECT category, count(*)
FROM products
WHERE trim(category) <> ''
GROUP BY category
ORDER BY category`

func (r *ProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := querier(ctx, r.db).Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []domain.Category{}
	for rows.Next() {
		var (
			c     domain.Category
			count int64
		)
		if err := rows.Scan(&c.Name, &count); err != nil {
			return nil, err
		}
		c.ID = domain.CategoryID(c.Name)
		c.ProductCount = int(count)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

const decrementStock = `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
RETURNING stock`

// DecrementStock never lets stock go below zero; a short product fails with
// ErrInsufficientStock.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	q := querier(ctx, r.db)

	var remaining int
	err := q.QueryRow(ctx, decrementStock, productID, quantity).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return 0, fmt.Errorf("product %s: %w", productID, domain.ErrInsufficientStock)
}

func (r *ProductRepository) SetProductStatus(ctx context.Context, productID, status string) error {
	tag, err := querier(ctx, r.db).Exec(ctx,
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1`, productID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}
