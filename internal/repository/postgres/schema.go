package postgres

import (
	"context"
	"fmt"
)

// Schema creates every table the storefront uses. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price       NUMERIC NOT NULL CHECK (price >= 0),
    stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    status      TEXT NOT NULL DEFAULT 'available',
    category    TEXT NOT NULL DEFAULT '',
    rating_rate  DOUBLE PRECISION NOT NULL DEFAULT 0,
    rating_count INTEGER NOT NULL DEFAULT 0,
    colors      TEXT[] NOT NULL DEFAULT '{}',
    sizes       TEXT[] NOT NULL DEFAULT '{}',
    images      TEXT[] NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

ALTER TABLE products ADD COLUMN IF NOT EXISTS category TEXT NOT NULL DEFAULT '';
ALTER TABLE products ADD COLUMN IF NOT EXISTS rating_rate DOUBLE PRECISION NOT NULL DEFAULT 0;
ALTER TABLE products ADD COLUMN IF NOT EXISTS rating_count INTEGER NOT NULL DEFAULT 0;

CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);
CREATE INDEX IF NOT EXISTS products_created_idx ON products (created_at DESC);

CREATE TABLE IF NOT EXISTS promotions (
    code           TEXT PRIMARY KEY CHECK (code = lower(code)),
    discount_value NUMERIC NOT NULL CHECK (discount_value >= 0),
    valid          BOOLEAN NOT NULL DEFAULT true,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    customer_id      TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'pending',
    payment_method   TEXT NOT NULL,
    promotion_code   TEXT NOT NULL DEFAULT '',
    shipping_address JSONB NOT NULL,
    subtotal         NUMERIC NOT NULL,
    discount         NUMERIC NOT NULL,
    shipping_cost    NUMERIC NOT NULL,
    total            NUMERIC NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS orders_customer_created_idx ON orders (customer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status);

CREATE TABLE IF NOT EXISTS order_items (
    order_id   TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    product_id TEXT NOT NULL,
    name       TEXT NOT NULL,
    price      NUMERIC NOT NULL,
    quantity   INTEGER NOT NULL CHECK (quantity > 0),
    color      TEXT NOT NULL DEFAULT '',
    size       TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (order_id, position)
);

CREATE TABLE IF NOT EXISTS order_history (
    id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    order_id        TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    previous_status TEXT NOT NULL DEFAULT '',
    new_status      TEXT NOT NULL,
    note            TEXT NOT NULL DEFAULT '',
    created_by      TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS order_history_order_idx ON order_history (order_id, created_at);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
