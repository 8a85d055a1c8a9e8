package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyOrderID    = errors.New("order id is required")
	ErrEmptyUserID     = errors.New("order user id is required")
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("item unit price must not be negative")
)

// OrderItem is a snapshot of a catalog entry at checkout time.
type OrderItem struct {
	BookID         string
	Title          string
	Quantity       int32
	UnitPriceCents int64
}

// LineTotalCents returns quantity times unit price for the line.
func (i OrderItem) LineTotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Order models a placed purchase with its lifecycle status.
//
// IsDelivered is true exactly when Status is Delivered. DeliveredAt is stamped
// at the first transition into Delivered and never cleared afterwards, even if
// the status later moves away from Delivered. Version supports conditional
// writes in the repositories.
type Order struct {
	ID          string
	UserID      string
	Items       []OrderItem
	TotalCents  int64
	Status      Status
	IsDelivered bool
	DeliveredAt *time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder validates and constructs a pending order, computing the total from
// its line items.
func NewOrder(id, userID string, items []OrderItem) (*Order, error) {
	order := &Order{
		ID:     strings.TrimSpace(id),
		UserID: strings.TrimSpace(userID),
		Items:  items,
		Status: StatusPending,
	}
	for _, item := range items {
		order.TotalCents += item.LineTotalCents()
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyOrderID
	}
	if o.UserID == "" {
		return ErrEmptyUserID
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.UnitPriceCents < 0 {
			return ErrInvalidPrice
		}
	}
	if !o.Status.IsValid() {
		return &InvalidStatusError{Status: string(o.Status)}
	}
	return nil
}

// ApplyStatus transitions the order to the given status and maintains the
// delivery flags. Any member of the vocabulary may follow any other; the
// lifecycle imposes no transition graph.
func (o *Order) ApplyStatus(status Status, now time.Time) error {
	if !status.IsValid() {
		return &InvalidStatusError{Status: string(status)}
	}
	o.Status = status
	if status == StatusDelivered {
		o.IsDelivered = true
		if o.DeliveredAt == nil {
			stamped := now
			o.DeliveredAt = &stamped
		}
	} else {
		// DeliveredAt survives a move away from Delivered.
		o.IsDelivered = false
	}
	return nil
}
