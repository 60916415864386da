package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed order store. Orders and their lines are written
// in one transaction; Update replaces the line set wholesale.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Insert(ctx context.Context, o Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, status, weight, shipment_amount, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, o.ID, string(o.Status), o.Weight, o.ShipmentAmount, o.TotalAmount, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	if err := insertLines(ctx, tx, o.ID, o.Lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	var status string
	err := r.DB.QueryRow(ctx, `
		SELECT id, status, weight, shipment_amount, total_amount, created_at, updated_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &status, &o.Weight, &o.ShipmentAmount, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	o.Lines, err = r.lines(ctx, id)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, status, weight, shipment_amount, total_amount, created_at, updated_at
		FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &status, &o.Weight, &o.ShipmentAmount, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Lines, err = r.lines(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, o Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE orders SET status=$2, weight=$3, shipment_amount=$4, total_amount=$5, updated_at=$6
		WHERE id=$1
	`, o.ID, string(o.Status), o.Weight, o.ShipmentAmount, o.TotalAmount, o.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, o.ID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, o.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, o.ID, o.Lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, id); err != nil {
		return err
	}
	// affected-row count ignored: deleting an unknown order is a no-op
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) lines(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, quantity FROM order_lines
		WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func insertLines(ctx context.Context, tx pgx.Tx, orderID string, lines []Line) error {
	for i, l := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, position, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			orderID, i, l.ProductID, l.Quantity,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
