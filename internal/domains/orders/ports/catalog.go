package ports

import (
	"context"
	"errors"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CatalogItem is the snapshot of a catalog entry taken at reservation time.
type CatalogItem struct {
	BookID         string
	Title          string
	UnitPriceCents int64
}

// Catalog is the read/reserve surface the orders context needs from the
// catalog context. Reserve decrements stock and returns the price snapshot;
// Release returns previously reserved stock when a checkout cannot complete.
type Catalog interface {
	Reserve(ctx context.Context, bookID string, quantity int32) (*CatalogItem, error)
	Release(ctx context.Context, bookID string, quantity int32) error
}
