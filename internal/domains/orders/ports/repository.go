package ports

import (
	"context"
	"errors"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict signals a lost conditional write: the stored order
	// changed since it was loaded.
	ErrVersionConflict = errors.New("order was modified concurrently")
)

// Repository persists orders with optimistic concurrency. Save performs a
// conditional write keyed on Order.Version: a zero version inserts, a non-zero
// version updates only when the stored version matches, failing with
// ErrVersionConflict otherwise. The returned order carries the incremented
// version.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}
