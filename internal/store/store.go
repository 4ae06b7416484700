// Package store provides durable storage for the product catalog.
package store

import (
	"context"
	"errors"

	"github.com/san360/gh-demo/internal/model"
)

// ErrCorruptData indicates the backing file exists but does not hold a
// well-formed product array.
var ErrCorruptData = errors.New("product data is corrupt")

// Store defines the interface for catalog persistence. Implementations
// own the canonical copy of the product sequence; callers always read or
// replace the whole sequence.
type Store interface {
	// Load returns the full product sequence in insertion order.
	// A missing backing file yields an empty sequence, not an error.
	Load(ctx context.Context) ([]model.Product, error)

	// Save replaces the stored sequence with the given one. Readers
	// observe either the prior complete state or the new complete
	// state, never a partial write.
	Save(ctx context.Context, products []model.Product) error
}
