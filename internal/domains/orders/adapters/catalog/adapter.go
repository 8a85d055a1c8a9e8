package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

var _ ordersports.Catalog = (*Adapter)(nil)

// Adapter bridges the orders context to the catalog service, translating
// catalog sentinels into the orders context's vocabulary.
type Adapter struct {
	catalog catalogports.Service
}

func NewAdapter(catalog catalogports.Service) *Adapter {
	return &Adapter{catalog: catalog}
}

func (a *Adapter) Reserve(ctx context.Context, bookID string, quantity int32) (*ordersports.CatalogItem, error) {
	if a == nil || a.catalog == nil {
		return nil, errors.New("catalog adapter not configured")
	}
	book, err := a.catalog.Reserve(ctx, bookID, quantity)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ordersports.ErrBookNotFound, bookID)
		}
		if errors.Is(err, catalogports.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: %s", ordersports.ErrInsufficientStock, bookID)
		}
		return nil, err
	}
	return &ordersports.CatalogItem{
		BookID:         book.ID,
		Title:          book.Title,
		UnitPriceCents: book.PriceCents,
	}, nil
}

func (a *Adapter) Release(ctx context.Context, bookID string, quantity int32) error {
	if a == nil || a.catalog == nil {
		return errors.New("catalog adapter not configured")
	}
	if err := a.catalog.Release(ctx, bookID, quantity); err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return fmt.Errorf("%w: %s", ordersports.ErrBookNotFound, bookID)
		}
		return err
	}
	return nil
}
