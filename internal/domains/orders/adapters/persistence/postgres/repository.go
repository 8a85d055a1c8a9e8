package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID          string            `gorm:"primaryKey;column:id;type:uuid"`
	UserID      string            `gorm:"column:user_id;type:uuid;index"`
	Items       []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	TotalCents  int64             `gorm:"column:total_cents"`
	Status      string            `gorm:"column:status;type:varchar(32);index"`
	IsDelivered bool              `gorm:"column:is_delivered"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`
	Version     int64             `gorm:"column:version"`
	CreatedAt   time.Time         `gorm:"column:created_at;index"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID             int64  `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID        string `gorm:"column:order_id;type:uuid;index"`
	BookID         string `gorm:"column:book_id;type:uuid"`
	Title          string `gorm:"column:title"`
	Quantity       int32  `gorm:"column:quantity"`
	UnitPriceCents int64  `gorm:"column:unit_price_cents"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save performs a version-conditional write. A zero version inserts the order
// with its items; a non-zero version updates the mutable columns only when the
// stored version still matches, so concurrent admin updates cannot clobber
// each other.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.Version == 0 {
			record := toRecord(order)
			record.Version = 1
			return tx.Create(&record).Error
		}
		result := tx.Model(&orderRecord{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]any{
				"status":       string(order.Status),
				"is_delivered": order.IsDelivered,
				"delivered_at": order.DeliveredAt,
				"version":      order.Version + 1,
				"updated_at":   gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&orderRecord{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ports.ErrNotFound
			}
			return ports.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByUser returns all orders placed by the given user.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:          order.ID,
		UserID:      order.UserID,
		TotalCents:  order.TotalCents,
		Status:      string(order.Status),
		IsDelivered: order.IsDelivered,
		DeliveredAt: order.DeliveredAt,
		Version:     order.Version,
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			OrderID:        order.ID,
			BookID:         item.BookID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		TotalCents:  r.TotalCents,
		Status:      domain.Status(r.Status),
		IsDelivered: r.IsDelivered,
		DeliveredAt: r.DeliveredAt,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			BookID:         item.BookID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return order
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
