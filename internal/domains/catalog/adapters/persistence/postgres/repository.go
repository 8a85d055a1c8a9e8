package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog entries in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&bookRecord{})
	}
	return repo
}

// bookRecord maps the book aggregate to a relational table.
type bookRecord struct {
	ID          string         `gorm:"primaryKey;column:id;type:uuid"`
	Title       string         `gorm:"column:title;index"`
	Author      string         `gorm:"column:author;index"`
	ISBN        string         `gorm:"column:isbn;size:32"`
	Description string         `gorm:"column:description"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	PriceCents  int64          `gorm:"column:price_cents"`
	Stock       int32          `gorm:"column:stock"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string { return "books" }

// Save inserts or updates a book.
func (r *Repository) Save(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toRecord(book)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":       record.Title,
				"author":      record.Author,
				"isbn":        record.ISBN,
				"description": record.Description,
				"tags":        record.Tags,
				"price_cents": record.PriceCents,
				"stock":       record.Stock,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a book by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a book by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&bookRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns books, optionally filtered by tag.
func (r *Repository) List(ctx context.Context, tag string) ([]*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("title ASC")
	if tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}
	var records []bookRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	books := make([]*domain.Book, 0, len(records))
	for i := range records {
		books = append(books, records[i].toDomain())
	}
	return books, nil
}

// ReserveStock decrements stock with a conditional update so concurrent
// checkouts cannot oversell.
func (r *Repository) ReserveStock(ctx context.Context, id string, quantity int32) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&bookRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrInsufficientStock
	}
	return r.GetByID(ctx, id)
}

// ReleaseStock returns reserved stock after a checkout failed partway.
func (r *Repository) ReleaseStock(ctx context.Context, id string, quantity int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Description: book.Description,
		Tags:        pq.StringArray(book.Tags),
		PriceCents:  book.PriceCents,
		Stock:       book.Stock,
	}
}

func (r bookRecord) toDomain() *domain.Book {
	return &domain.Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Tags:        []string(r.Tags),
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
