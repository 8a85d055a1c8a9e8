package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/bookhaven/bookstore-api/internal/durable/temporal/activities/orders"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// place an order: persist it, then notify the fulfillment partner.
func RunOrderPlacementSequence(ctx workflow.Context, input orderactivities.PersistOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", input.UserID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, input).Get(ctx, &order); err != nil {
		logger.Error("order placement sequence failed to persist", "userId", input.UserID, "error", err)
		return nil, err
	}
	if err := workflow.ExecuteActivity(ctx, orderactivities.NotifyFulfillmentActivityName, order.ID).Get(ctx, nil); err != nil {
		logger.Error("order placement sequence failed to notify fulfillment", "orderId", order.ID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
