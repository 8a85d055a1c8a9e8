package ports

import (
	"context"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

// StatusChangedEvent describes a completed status transition.
type StatusChangedEvent struct {
	OrderID        string        `json:"order_id"`
	PreviousStatus domain.Status `json:"previous_status"`
	NewStatus      domain.Status `json:"new_status"`
	ActorID        string        `json:"actor_id"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// EventPublisher broadcasts order lifecycle events to interested consumers.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
}

// NopEventPublisher is a safe default when no broker is configured.
var NopEventPublisher EventPublisher = nopEventPublisher{}

type nopEventPublisher struct{}

func (nopEventPublisher) PublishStatusChanged(_ context.Context, _ StatusChangedEvent) error {
	return nil
}
