package orders

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("order not found")

// Store persists order aggregates. Insert and Update write the whole
// aggregate including its lines; List returns insertion order. Delete of an
// unknown id is a no-op.
type Store interface {
	Insert(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}
