// Package service implements the product catalog operations on top of a
// Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san360/gh-demo/internal/model"
	"github.com/san360/gh-demo/internal/store"
)

// ErrNotFound is returned when no product with the requested id exists.
var ErrNotFound = errors.New("product not found")

// Service defines the catalog operations exposed to the HTTP layer.
type Service interface {
	// List returns all products in insertion order with formatted
	// prices attached.
	List(ctx context.Context) ([]model.Product, error)

	// Get returns the product with the given id.
	Get(ctx context.Context, id int) (model.Product, error)

	// Create validates the input, assigns a new id, persists the
	// record, and returns it.
	Create(ctx context.Context, in *model.ProductInput) (model.Product, error)

	// Update merges the supplied fields onto the existing record,
	// re-validates the merged result, persists, and returns it.
	Update(ctx context.Context, id int, in *model.ProductInput) (model.Product, error)

	// Delete removes the product with the given id and returns the
	// removed record.
	Delete(ctx context.Context, id int) (model.Product, error)
}

// EventPublisher receives catalog change notifications. Implementations
// must not block.
type EventPublisher interface {
	Publish(event model.ProductEvent)
}

// ProductService implements Service over a Store. A single RWMutex
// serializes mutating operations so that concurrent writers cannot lose
// updates in the load-mutate-save cycle; there is no long-lived cache,
// every operation reloads from the Store.
type ProductService struct {
	mu     sync.RWMutex
	store  store.Store
	logger *zap.Logger
	events EventPublisher
}

// New creates a ProductService. The events publisher may be nil, in
// which case change notifications are disabled.
func New(s store.Store, logger *zap.Logger, events EventPublisher) *ProductService {
	return &ProductService{
		store:  s,
		logger: logger,
		events: events,
	}
}

// List returns all products with formatted prices attached.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	formatted := make([]model.Product, len(products))
	for i, p := range products {
		formatted[i] = p.Formatted()
	}

	return formatted, nil
}

// Get returns the product with the given id.
func (s *ProductService) Get(ctx context.Context, id int) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	for _, p := range products {
		if p.ID == id {
			return p.Formatted(), nil
		}
	}

	return model.Product{}, ErrNotFound
}

// Create validates the input, assigns the next id, appends the record,
// and persists the full sequence. The store is left untouched when
// validation or persistence fails.
func (s *ProductService) Create(ctx context.Context, in *model.ProductInput) (model.Product, error) {
	if ferr := in.Validate(); ferr != nil {
		return model.Product{}, ferr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}

	product := in.ToProduct(nextID(products))
	products = append(products, product)

	if err := s.store.Save(ctx, products); err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created",
		zap.Int("id", product.ID),
		zap.String("name", product.Name),
	)
	s.publish(model.EventProductCreated, product)

	return product.Formatted(), nil
}

// Update merges the supplied fields onto the existing record,
// re-validates the merged result, and persists. The stored record is
// unchanged when the merged result is invalid or persistence fails.
func (s *ProductService) Update(ctx context.Context, id int, in *model.ProductInput) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	idx := indexOf(products, id)
	if idx < 0 {
		return model.Product{}, ErrNotFound
	}

	merged := in.ApplyTo(products[idx])
	if ferr := merged.Validate(); ferr != nil {
		return model.Product{}, ferr
	}

	products[idx] = merged
	if err := s.store.Save(ctx, products); err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.logger.Info("product updated", zap.Int("id", id))
	s.publish(model.EventProductUpdated, merged)

	return merged.Formatted(), nil
}

// Delete removes the product with the given id, persists the remaining
// sequence, and returns the removed record.
func (s *ProductService) Delete(ctx context.Context, id int) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	idx := indexOf(products, id)
	if idx < 0 {
		return model.Product{}, ErrNotFound
	}

	removed := products[idx]
	products = append(products[:idx], products[idx+1:]...)

	if err := s.store.Save(ctx, products); err != nil {
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	s.logger.Info("product deleted", zap.Int("id", id))
	s.publish(model.EventProductDeleted, removed)

	return removed.Formatted(), nil
}

// publish sends a change event if a publisher is configured.
func (s *ProductService) publish(eventType string, p model.Product) {
	if s.events == nil {
		return
	}
	s.events.Publish(model.NewProductEvent(eventType, p))
}

// nextID returns max(existing ids) + 1, or 1 for an empty catalog.
func nextID(products []model.Product) int {
	maxID := 0
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// indexOf returns the position of the product with the given id, or -1.
func indexOf(products []model.Product, id int) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
