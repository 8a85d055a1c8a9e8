package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

// LineInput identifies a catalog entry and quantity requested at checkout.
type LineInput struct {
	BookID   string
	Quantity int32
}

// StatusUpdateInput carries a requested status transition and the acting
// admin identity for the audit trail.
type StatusUpdateInput struct {
	OrderID string
	Status  string
	ActorID string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, userID string, lines []LineInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, input StatusUpdateInput) (*domain.Order, error)
}
