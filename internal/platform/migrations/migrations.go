package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&bookRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Book schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          string     `gorm:"primaryKey;column:id;type:uuid"`
	UserID      string     `gorm:"column:user_id;type:uuid;index"`
	TotalCents  int64      `gorm:"column:total_cents"`
	Status      string     `gorm:"column:status;type:varchar(32);index"`
	IsDelivered bool       `gorm:"column:is_delivered"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	Version     int64      `gorm:"column:version"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;index"`
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

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(16);index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
