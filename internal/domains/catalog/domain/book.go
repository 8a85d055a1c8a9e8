package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyBookID  = errors.New("book id is required")
	ErrEmptyTitle   = errors.New("book title is required")
	ErrEmptyAuthor  = errors.New("book author is required")
	ErrInvalidPrice = errors.New("book price must not be negative")
	ErrInvalidStock = errors.New("book stock must not be negative")
)

// Book models a catalog entry.
type Book struct {
	ID          string
	Title       string
	Author      string
	ISBN        string
	Description string
	Tags        []string
	PriceCents  int64
	Stock       int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook validates and constructs a catalog entry.
func NewBook(id, title, author string, priceCents int64, stock int32) (*Book, error) {
	book := &Book{
		ID:         strings.TrimSpace(id),
		Title:      strings.TrimSpace(title),
		Author:     strings.TrimSpace(author),
		PriceCents: priceCents,
		Stock:      stock,
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate enforces invariants on the aggregate.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyBookID
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(b.Author) == "" {
		return ErrEmptyAuthor
	}
	if b.PriceCents < 0 {
		return ErrInvalidPrice
	}
	if b.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
