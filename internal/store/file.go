package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/san360/gh-demo/internal/model"
)

// FileStore implements Store backed by a single JSON file holding a
// top-level array of product objects.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the backing file. A missing file is treated as
// an empty catalog.
func (s *FileStore) Load(ctx context.Context) ([]model.Product, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load products: %w", ctx.Err())
	default:
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Product{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, ErrCorruptData)
	}

	return products, nil
}

// Save serializes the full sequence and atomically replaces the backing
// file using write-temp-then-rename, so a crash mid-write never leaves a
// truncated file behind. The derived formatted price is stripped before
// persisting.
func (s *FileStore) Save(ctx context.Context, products []model.Product) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("save products: %w", ctx.Err())
	default:
	}

	stripped := make([]model.Product, len(products))
	for i, p := range products {
		stripped[i] = p.Stripped()
	}

	data, err := json.MarshalIndent(stripped, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding products: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}
