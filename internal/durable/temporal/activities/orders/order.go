package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

const (
	// PersistOrderActivityName persists the order without touching external partners.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// NotifyFulfillmentActivityName pushes an existing order to the fulfillment partner.
	NotifyFulfillmentActivityName = "orders.activities.NotifyFulfillment"
)

// PersistOrderInput carries the checkout payload into the persist activity.
type PersistOrderInput struct {
	UserID string
	Lines  []ordersports.LineInput
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service     ordersports.Service
	repo        ordersports.Repository
	fulfillment ordersports.FulfillmentNotifier
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
func NewActivities(service ordersports.Service, repo ordersports.Repository, fulfillment ordersports.FulfillmentNotifier) *Activities {
	return &Activities{service: service, repo: repo, fulfillment: fulfillment}
}

// PersistOrder reserves stock and stores a new pending order.
func (a *Activities) PersistOrder(ctx context.Context, input PersistOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized", "userId", input.UserID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "userId", input.UserID, "lines", len(input.Lines))
	order, err := a.service.PlaceOrder(ctx, input.UserID, input.Lines)
	if err != nil {
		logger.Error("PersistOrder activity failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID)
	return order, nil
}

// NotifyFulfillment loads an order and pushes it to the configured partner.
func (a *Activities) NotifyFulfillment(ctx context.Context, orderID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		logger.Error("fulfillment activity not initialized", "orderId", orderID)
		return errors.New("fulfillment activity not initialized")
	}
	if a.fulfillment == nil {
		logger.Info("fulfillment partner not configured; skipping", "orderId", orderID)
		return nil
	}
	if a.repo == nil {
		logger.Error("order repository not configured for fulfillment", "orderId", orderID)
		return errors.New("order repository not configured for fulfillment")
	}

	var hb notifyHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("NotifyFulfillment already completed in prior attempt; skipping", "orderId", orderID)
		return nil
	}

	logger.Info("NotifyFulfillment activity started", "orderId", orderID)
	order, err := a.repo.GetByID(ctx, orderID)
	if err != nil {
		logger.Error("NotifyFulfillment failed to load order", "orderId", orderID, "error", err)
		return err
	}
	if err := a.fulfillment.Notify(ctx, order); err != nil {
		logger.Error("NotifyFulfillment failed", "orderId", orderID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, notifyHeartbeat{Completed: true})
	logger.Info("NotifyFulfillment activity completed", "orderId", orderID)
	return nil
}

type notifyHeartbeat struct {
	Completed bool
}
