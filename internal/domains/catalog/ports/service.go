package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	AddBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	UpdateBook(ctx context.Context, id string, book *domain.Book) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
	GetBookByID(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, tag string) ([]*domain.Book, error)
	Reserve(ctx context.Context, id string, quantity int32) (*domain.Book, error)
	Release(ctx context.Context, id string, quantity int32) error
}
