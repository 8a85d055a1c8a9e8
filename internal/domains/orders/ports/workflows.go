package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the durable order placement flow: persist the
// order, then notify the fulfillment partner.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, userID string, lines []LineInput) (*domain.Order, error)
}

// FulfillmentNotifier pushes a placed order to the external fulfillment partner.
type FulfillmentNotifier interface {
	Notify(ctx context.Context, order *domain.Order) error
}
