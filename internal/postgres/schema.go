package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is idempotent DDL applied on startup. order_lines has no foreign key
// to products on purpose: a product may be deleted while orders still
// reference it, and pricing surfaces the dangling reference as not-found.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    price      DOUBLE PRECISION NOT NULL,
    weight     DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
    id              TEXT PRIMARY KEY,
    status          TEXT NOT NULL,
    weight          DOUBLE PRECISION NOT NULL,
    shipment_amount DOUBLE PRECISION NOT NULL,
    total_amount    DOUBLE PRECISION NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_lines (
    order_id   TEXT NOT NULL REFERENCES orders(id),
    position   INT  NOT NULL,
    product_id TEXT NOT NULL,
    quantity   INT  NOT NULL,
    PRIMARY KEY (order_id, position)
);
`

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
