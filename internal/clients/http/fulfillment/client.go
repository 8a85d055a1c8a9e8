// Package fulfillment talks to the external fulfillment partner that picks,
// packs, and ships placed orders.
package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

var _ ordersports.FulfillmentNotifier = (*Client)(nil)

// Client notifies the fulfillment partner about placed orders.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the fulfillment client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("fulfillment base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type notifyPayload struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalCents int64     `json:"total_cents"`
	PlacedAt   time.Time `json:"placed_at"`
}

// Notify pushes the placed order to the partner. The partner treats the order
// id as an idempotency key, so retried deliveries are safe.
func (c *Client) Notify(ctx context.Context, order *ordersdomain.Order) error {
	if c == nil || c.httpClient == nil {
		return errors.New("fulfillment client not configured")
	}
	if order == nil {
		return errors.New("order is nil")
	}
	payload, err := json.Marshal(notifyPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalCents: order.TotalCents,
		PlacedAt:   order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal fulfillment payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build fulfillment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", order.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify fulfillment partner: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fulfillment partner rejected order %s: status %d", order.ID, resp.StatusCode)
	}
	return nil
}
