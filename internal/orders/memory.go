package orders

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps orders in insertion order behind a RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []Order
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Insert(ctx context.Context, o Order) error {
	s.mu.Lock()
	s.orders = append(s.orders, cloned(o))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return cloned(o), nil
		}
	}
	return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *MemoryStore) List(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloned(o))
	}
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = cloned(o)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, o.ID)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

// cloned copies the line slice so callers cannot mutate stored state.
func cloned(o Order) Order {
	if o.Lines != nil {
		lines := make([]Line, len(o.Lines))
		copy(lines, o.Lines)
		o.Lines = lines
	}
	return o
}
