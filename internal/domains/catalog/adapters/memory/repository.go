package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	books map[string]*domain.Book
}

func NewRepository() *Repository {
	return &Repository{books: map[string]*domain.Book{}}
}

func (r *Repository) Save(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	clone := cloneBook(book)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.books[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.CreatedAt = time.Now()
	}
	clone.UpdatedAt = time.Now()
	r.books[clone.ID] = clone
	return cloneBook(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneBook(book), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *Repository) List(_ context.Context, tag string) ([]*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Book, 0, len(r.books))
	for _, book := range r.books {
		if tag != "" && !slices.Contains(book.Tags, tag) {
			continue
		}
		list = append(list, cloneBook(book))
	}
	return list, nil
}

func (r *Repository) ReserveStock(_ context.Context, id string, quantity int32) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if book.Stock < quantity {
		return nil, ports.ErrInsufficientStock
	}
	book.Stock -= quantity
	book.UpdatedAt = time.Now()
	return cloneBook(book), nil
}

func (r *Repository) ReleaseStock(_ context.Context, id string, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return ports.ErrNotFound
	}
	book.Stock += quantity
	book.UpdatedAt = time.Now()
	return nil
}

func cloneBook(book *domain.Book) *domain.Book {
	clone := *book
	clone.Tags = append([]string(nil), book.Tags...)
	return &clone
}
