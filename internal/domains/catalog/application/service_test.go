package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

func addTestBook(t *testing.T, svc *Service, title string, stock int32, tags ...string) *domain.Book {
	t.Helper()
	book, err := svc.AddBook(context.Background(), &domain.Book{
		Title:      title,
		Author:     "Some Author",
		Tags:       tags,
		PriceCents: 1999,
		Stock:      stock,
	})
	require.NoError(t, err)
	return book
}

func TestAddBook_GeneratesID(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	book := addTestBook(t, svc, "The Go Programming Language", 5)
	require.NotEmpty(t, book.ID)
	require.Equal(t, int32(5), book.Stock)
}

func TestAddBook_Invalid(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.AddBook(context.Background(), &domain.Book{Author: "A"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = svc.AddBook(context.Background(), &domain.Book{Title: "T", Author: "A", PriceCents: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestUpdateBook_KeepsIdentity(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	book := addTestBook(t, svc, "First Edition", 5)

	updated, err := svc.UpdateBook(context.Background(), book.ID, &domain.Book{
		Title:      "Second Edition",
		Author:     "Some Author",
		PriceCents: 2499,
		Stock:      7,
	})
	require.NoError(t, err)
	require.Equal(t, book.ID, updated.ID)
	require.Equal(t, "Second Edition", updated.Title)
	require.Equal(t, book.CreatedAt, updated.CreatedAt)
}

func TestUpdateBook_NotFound(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.UpdateBook(context.Background(), "missing", &domain.Book{Title: "T", Author: "A"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListBooks_FiltersByTag(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	addTestBook(t, svc, "Gopher Tales", 3, "go", "fiction")
	addTestBook(t, svc, "Rustaceans", 3, "rust")

	books, err := svc.ListBooks(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Gopher Tales", books[0].Title)

	all, err := svc.ListBooks(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestReserve_DecrementsStock(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	book := addTestBook(t, svc, "Gopher Tales", 3)

	reserved, err := svc.Reserve(context.Background(), book.ID, 2)
	require.NoError(t, err)
	require.Equal(t, int32(1), reserved.Stock)

	_, err = svc.Reserve(context.Background(), book.ID, 2)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	_, err = svc.Reserve(context.Background(), book.ID, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRelease_RestoresStock(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	book := addTestBook(t, svc, "Gopher Tales", 3)

	_, err := svc.Reserve(context.Background(), book.ID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Release(context.Background(), book.ID, 2))

	restored, err := svc.GetBookByID(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, int32(3), restored.Stock)

	require.ErrorIs(t, svc.Release(context.Background(), book.ID, 0), ErrInvalidInput)
	require.ErrorIs(t, svc.Release(context.Background(), "missing", 1), ports.ErrNotFound)
}

func TestDeleteBook(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	book := addTestBook(t, svc, "Gopher Tales", 3)

	require.NoError(t, svc.DeleteBook(context.Background(), book.ID))

	_, err := svc.GetBookByID(context.Background(), book.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
