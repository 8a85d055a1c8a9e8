package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookhaven/bookstore-api/internal/shared/httpapi"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport to the orders bounded context.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service and workflows.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

type orderItemPayload struct {
	BookID         string `json:"book_id"`
	Title          string `json:"title,omitempty"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents,omitempty"`
}

type orderPayload struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Items       []orderItemPayload `json:"items"`
	TotalCents  int64              `json:"total_cents"`
	Status      string             `json:"status"`
	IsDelivered bool               `json:"is_delivered"`
	DeliveredAt *time.Time         `json:"delivered_at"`
	Version     int64              `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toOrderPayload(order *ordersdomain.Order) orderPayload {
	payload := orderPayload{
		ID:          order.ID,
		UserID:      order.UserID,
		TotalCents:  order.TotalCents,
		Status:      string(order.Status),
		IsDelivered: order.IsDelivered,
		DeliveredAt: order.DeliveredAt,
		Version:     order.Version,
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			BookID:         item.BookID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return payload
}

func toOrderPayloadList(orders []*ordersdomain.Order) []orderPayload {
	payloads := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		payloads = append(payloads, toOrderPayload(order))
	}
	return payloads
}

// Post /api/orders
// Place an order for the authenticated user.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		httpapi.Unauthorized(c)
		return
	}
	var payload struct {
		Items []orderItemPayload `json:"items"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	lines := make([]ordersports.LineInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, ordersports.LineInput{BookID: item.BookID, Quantity: item.Quantity})
	}
	order, err := api.placeOrder(c, principal.ID, lines)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	httpapi.Success(c, http.StatusCreated, "order placed", gin.H{"order": toOrderPayload(order)})
}

func (api *OrderAPI) placeOrder(c *gin.Context, userID string, lines []ordersports.LineInput) (*ordersdomain.Order, error) {
	ctx := c.Request.Context()
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, userID, lines)
	}
	return api.service.PlaceOrder(ctx, userID, lines)
}

// Get /api/orders
// List the authenticated user's orders.
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		httpapi.Unauthorized(c)
		return
	}
	orders, err := api.service.ListOrdersForUser(c.Request.Context(), principal.ID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "orders listed", gin.H{"orders": toOrderPayloadList(orders)})
}

// Get /api/orders/:orderId
// Fetch one order; owners see their own, admins see any.
func (api *OrderAPI) GetOrder(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		httpapi.Unauthorized(c)
		return
	}
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if order.UserID != principal.ID && !principal.IsAdmin() {
		// Hide other users' orders rather than confirming their existence.
		httpapi.Fail(c, http.StatusNotFound, "order not found")
		return
	}
	httpapi.Success(c, http.StatusOK, "order fetched", gin.H{"order": toOrderPayload(order)})
}

// Get /api/admin/orders
// List every order (admin).
func (api *OrderAPI) ListAllOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondOrderError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "orders listed", gin.H{"orders": toOrderPayloadList(orders)})
}

// Put /api/admin/orders/:orderId/status
// Transition an order's lifecycle status (admin).
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		httpapi.Unauthorized(c)
		return
	}
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}
	var payload struct {
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Status == nil || strings.TrimSpace(*payload.Status) == "" {
		httpapi.Fail(c, http.StatusBadRequest, "status is required")
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), ordersports.StatusUpdateInput{
		OrderID: orderID,
		Status:  *payload.Status,
		ActorID: principal.ID,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "order status updated", gin.H{"order": toOrderPayload(order)})
}

// parseOrderIDParam rejects malformed identifiers before the storage layer
// sees them: a bad id is a client error, not a server fault.
func parseOrderIDParam(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Param("orderId"))
	if _, err := uuid.Parse(raw); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid order id")
		return "", false
	}
	return raw, true
}
