package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps products in insertion order behind a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Create(ctx context.Context, name string, price, weight float64) (Product, error) {
	if err := validate(name, price, weight); err != nil {
		return Product{}, err
	}
	now := time.Now().UTC()
	p := Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Weight:    weight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return p, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *MemoryStore) List(ctx context.Context, sortBy string) ([]Product, error) {
	s.mu.RLock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	s.mu.RUnlock()

	switch sortBy {
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case "price":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "weight":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	}
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id, name string, price, weight float64) (Product, error) {
	if err := validate(name, price, weight); err != nil {
		return Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Name = name
			s.products[i].Price = price
			s.products[i].Weight = weight
			s.products[i].UpdatedAt = time.Now().UTC()
			return s.products[i], nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes nothing when the id is unknown.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return nil
}
