package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed catalog store.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, name string, price, weight float64) (Product, error) {
	if err := validate(name, price, weight); err != nil {
		return Product{}, err
	}
	id := uuid.NewString()
	var p Product
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, price, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, price, weight, created_at, updated_at
	`, id, name, price, weight).Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, price, weight, created_at, updated_at
		FROM products WHERE id=$1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context, sortBy string) ([]Product, error) {
	// insertion order = created_at; the whitelist keeps sortBy out of the SQL
	// unless it is a recognized column.
	order := "created_at"
	switch sortBy {
	case "name", "price", "weight":
		order = sortBy + ", created_at"
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price, weight, created_at, updated_at
		FROM products ORDER BY `+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id, name string, price, weight float64) (Product, error) {
	if err := validate(name, price, weight); err != nil {
		return Product{}, err
	}
	var p Product
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET name=$2, price=$3, weight=$4, updated_at=now()
		WHERE id=$1
		RETURNING id, name, price, weight, created_at, updated_at
	`, id, name, price, weight).Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// Delete ignores the affected-row count: removing an unknown id is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}
