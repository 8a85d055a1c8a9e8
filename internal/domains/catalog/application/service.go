package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

type Option func(*Service)

// WithIDGenerator overrides book id generation, used by tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) AddBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	if strings.TrimSpace(book.ID) == "" {
		book.ID = s.newID()
	}
	if err := book.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, id string, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book.ID = existing.ID
	book.CreatedAt = existing.CreatedAt
	if err := book.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, book)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetBookByID(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, tag string) ([]*domain.Book, error) {
	return s.repo.List(ctx, strings.TrimSpace(tag))
}

// Reserve decrements available stock for a checkout line.
func (s *Service) Reserve(ctx context.Context, id string, quantity int32) (*domain.Book, error) {
	if quantity <= 0 {
		return nil, mapError(domain.ErrInvalidStock)
	}
	return s.repo.ReserveStock(ctx, id, quantity)
}

// Release returns reserved stock after a checkout that could not complete.
func (s *Service) Release(ctx context.Context, id string, quantity int32) error {
	if quantity <= 0 {
		return mapError(domain.ErrInvalidStock)
	}
	return s.repo.ReleaseStock(ctx, id, quantity)
}

var _ ports.Service = (*Service)(nil)
