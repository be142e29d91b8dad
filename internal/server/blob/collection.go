package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// Collection is a JSON array of records kept in a Store. Every operation
// reads the whole document; Modify writes it back under the collection lock.
type Collection[T any] struct {
	mu    sync.Mutex
	store Store
}

func NewCollection[T any](store Store) *Collection[T] {
	return &Collection[T]{store: store}
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	b, err := c.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return items, nil
}

// View passes the current records to fn.
func (c *Collection[T]) View(ctx context.Context, fn func(items []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	return fn(items)
}

// Modify replaces the records with what fn returns. Nothing is written when
// fn fails.
func (c *Collection[T]) Modify(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}

	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return c.store.Write(ctx, b)
}
