package catalog

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrNameTooShort  = fmt.Errorf("product name shorter than %d chars", MinNameLen)
	ErrNegativeValue = errors.New("price and weight must be non-negative")
)

// Store is the catalog persistence port. List returns products in insertion
// order unless sortBy is one of "name", "price", "weight"; any other value
// is ignored, not rejected. Delete of an unknown id is a no-op.
type Store interface {
	Create(ctx context.Context, name string, price, weight float64) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, sortBy string) ([]Product, error)
	Update(ctx context.Context, id, name string, price, weight float64) (Product, error)
	Delete(ctx context.Context, id string) error
}

func validate(name string, price, weight float64) error {
	if len(name) < MinNameLen {
		return ErrNameTooShort
	}
	if price < 0 || weight < 0 {
		return ErrNegativeValue
	}
	return nil
}
