package ports

import (
	"context"
	"errors"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("book not found")
	// ErrInsufficientStock signals a reservation exceeding the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository persists catalog entries. ReserveStock atomically decrements the
// available stock, failing with ErrInsufficientStock when the quantity is not
// available. ReleaseStock adds reserved stock back after a failed checkout.
type Repository interface {
	Save(ctx context.Context, book *domain.Book) (*domain.Book, error)
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, tag string) ([]*domain.Book, error)
	ReserveStock(ctx context.Context, id string, quantity int32) (*domain.Book, error)
	ReleaseStock(ctx context.Context, id string, quantity int32) error
}
