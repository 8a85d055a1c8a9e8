package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	orderworkflows "github.com/bookhaven/bookstore-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ordersports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ordersports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that persists an order and notifies
// fulfillment.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, userID string, lines []ordersports.LineInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("order-placement-%s-%s", uuid.NewString(), traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{UserID: userID, Lines: lines, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order ordersdomain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, err
			}
			return &order, nil
		}
		return nil, err
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful
// for tests or dev fallbacks. Fulfillment notification is best effort here.
type InlineOrderWorkflows struct {
	service     ordersports.Service
	fulfillment ordersports.FulfillmentNotifier
	logger      *slog.Logger
}

// InlineOption configures the inline orchestrator.
type InlineOption func(*InlineOrderWorkflows)

func WithLogger(logger *slog.Logger) InlineOption {
	return func(o *InlineOrderWorkflows) { o.logger = logger }
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ordersports.Service, fulfillment ordersports.FulfillmentNotifier, opts ...InlineOption) *InlineOrderWorkflows {
	o := &InlineOrderWorkflows{service: service, fulfillment: fulfillment}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, userID string, lines []ordersports.LineInput) (*ordersdomain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	order, err := o.service.PlaceOrder(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	if o.fulfillment != nil {
		notifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := o.fulfillment.Notify(notifyCtx, order); err != nil && o.logger != nil {
			// Fulfillment is best effort; the order itself is already persisted.
			o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to notify fulfillment",
				slog.String("order.id", order.ID),
				slog.String("error", err.Error()))
		}
	}
	return order, nil
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
