package postgres

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) domain.OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, customer_id, status, payment_method, promotion_code, shipping_address,
subtotal, discount, shipping_cost, total, created_at, updated_at`

// --- Mappers ---

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                                   domain.Order
		status                              string
		address                             []byte
		subtotal, discount, shipping, total pgtype.Numeric
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &status, &o.PaymentMethod, &o.PromotionCode, &address,
		&subtotal, &discount, &shipping, &total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	o.Status = domain.OrderStatus(status)

	if len(address) > 0 {
		if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("order %s address: %w", o.ID, err)
		}
	}

	amounts := []struct {
		src pgtype.Numeric
		dst *decimal.Decimal
	}{
		{subtotal, &o.Subtotal},
		{discount, &o.Discount},
		{shipping, &o.ShippingCost},
		{total, &o.Total},
	}
	for _, a := range amounts {
		if *a.dst, err = numericToDecimal(a.src); err != nil {
			return nil, fmt.Errorf("order %s amount: %w", o.ID, err)
		}
	}
	return &o, nil
}

// --- Order Methods ---

const insertOrder = `
INSERT INTO orders (customer_id, status, payment_method, promotion_code, shipping_address,
                    subtotal, discount, shipping_cost, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`

const insertOrderItem = `
INSERT INTO order_items (order_id, position, product_id, name, price, quantity, color, size)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// CreateOrder writes the order and its items; the database assigns the id.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	q := querier(ctx, r.db)

	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	err = q.QueryRow(ctx, insertOrder,
		order.CustomerID,
		string(order.Status),
		order.PaymentMethod,
		order.PromotionCode,
		address,
		decimalToNumeric(order.Subtotal),
		decimalToNumeric(order.Discount),
		decimalToNumeric(order.ShippingCost),
		decimalToNumeric(order.Total),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	batch := &pgx.Batch{}
	for i, item := range order.Items {
		batch.Queue(insertOrderItem,
			order.ID, i, item.ProductID, item.Name, decimalToNumeric(item.Price),
			item.Quantity, item.Color, item.Size)
	}
	return q.SendBatch(ctx, batch).Close()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := querier(ctx, r.db)
	order, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, q, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// GetByCustomerID lists a customer's orders, newest first.
func (r *OrderRepository) GetByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error) {
	q := querier(ctx, r.db)
	orders, err := r.queryOrders(ctx, q,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, q, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// --- Admin Methods ---

// orderFilterClause builds the WHERE clause shared by the admin list and its count.
// Search matches the order id, customer id, name or phone number.
func orderFilterClause(filter domain.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(id ILIKE $%[1]d OR customer_id ILIKE $%[1]d OR shipping_address->>'firstName' ILIKE $%[1]d "+
				"OR shipping_address->>'lastName' ILIKE $%[1]d OR shipping_address->>'phoneNumber' ILIKE $%[1]d)", n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *OrderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	filter = filter.Normalized()
	limit := filter.Limit
	offset := (filter.Page - 1) * limit

	q := querier(ctx, r.db)
	where, args := orderFilterClause(filter)

	var count int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]any{}, args...), limit, offset)
	sql := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)

	orders, err := r.queryOrders(ctx, q, sql, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, q, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	tag, err := querier(ctx, r.db).Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *OrderRepository) CreateOrderHistory(ctx context.Context, history *domain.OrderHistory) error {
	row := querier(ctx, r.db).QueryRow(ctx, `
INSERT INTO order_history (order_id, previous_status, new_status, note, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`,
		history.OrderID, string(history.PreviousStatus), string(history.NewStatus), history.Note, history.CreatedBy)
	return mapError(row.Scan(&history.ID, &history.CreatedAt))
}

func (r *OrderRepository) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	rows, err := querier(ctx, r.db).Query(ctx, `
SELECT id, order_id, previous_status, new_status, note, created_by, created_at
FROM order_history
WHERE order_id = $1
ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []domain.OrderHistory{}
	for rows.Next() {
		var (
			h             domain.OrderHistory
			previous, now string
		)
		if err := rows.Scan(&h.ID, &h.OrderID, &previous, &now, &h.Note, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.PreviousStatus = domain.OrderStatus(previous)
		h.NewStatus = domain.OrderStatus(now)
		history = append(history, h)
	}
	return history, rows.Err()
}

// --- Helpers ---

func (r *OrderRepository) queryOrders(ctx context.Context, q DBTX, sql string, args ...any) ([]domain.Order, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// attachItems loads the items of all given orders in one query.
func (r *OrderRepository) attachItems(ctx context.Context, q DBTX, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []domain.OrderItem{}
	}

	rows, err := q.Query(ctx, `
SELECT order_id, product_id, name, price, quantity, color, size
FROM order_items
WHERE order_id = ANY($1)
ORDER BY order_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
			price   pgtype.Numeric
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &price, &item.Quantity, &item.Color, &item.Size); err != nil {
			return err
		}
		if item.Price, err = numericToDecimal(price); err != nil {
			return fmt.Errorf("order %s item price: %w", orderID, err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}
