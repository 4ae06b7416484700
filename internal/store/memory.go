package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/san360/gh-demo/internal/model"
)

// MemoryStore implements Store with an in-memory product sequence.
// Primarily used in tests and demos where durability is not needed.
type MemoryStore struct {
	mu       sync.RWMutex
	products []model.Product
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: []model.Product{}}
}

// Load returns a copy of the stored sequence in insertion order.
func (s *MemoryStore) Load(ctx context.Context) ([]model.Product, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load products: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, len(s.products))
	copy(products, s.products)

	return products, nil
}

// Save replaces the stored sequence with a copy of the given one.
func (s *MemoryStore) Save(ctx context.Context, products []model.Product) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("save products: %w", ctx.Err())
	default:
	}

	stored := make([]model.Product, len(products))
	for i, p := range products {
		stored[i] = p.Stripped()
	}

	s.mu.Lock()
	s.products = stored
	s.mu.Unlock()

	return nil
}
