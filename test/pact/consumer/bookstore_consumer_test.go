//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/bookhaven/bookstore-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *orderPayload `json:"order"`
}

type orderPayload struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	IsDelivered bool   `json:"is_delivered"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	msg := e.message
	if msg == "" {
		msg = "api error"
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int { return e.status }

func TestStorefrontOrderStatusContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	statusPath := fmt.Sprintf("/api/admin/orders/%s/status", pacttest.ExistingOrderID)
	successBody := matchers.Map{
		"success": matchers.Like(true),
		"message": matchers.S("order status updated"),
		"order": matchers.Map{
			"id":           matchers.S(pacttest.ExistingOrderID),
			"status":       matchers.Term("Shipped", "Pending|Processing|Shipped|Delivered|Cancelled"),
			"is_delivered": matchers.Like(false),
		},
	}

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("an admin request to ship an order").
		WithRequest("PUT", statusPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.AdminToken))
			b.JSONBody(matchers.Map{"status": matchers.S("shipped")})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(successBody)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("an admin request with an unknown status value").
		WithRequest("PUT", statusPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.AdminToken))
			b.JSONBody(matchers.Map{"status": matchers.S("banana")})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(false),
				"message": matchers.Term(
					`invalid order status "Banana", valid statuses are: Pending, Processing, Shipped, Delivered, Cancelled`,
					".*Pending, Processing, Shipped, Delivered, Cancelled.*",
				),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("an admin request for a missing order").
		WithRequest("PUT", fmt.Sprintf("/api/admin/orders/%s/status", pacttest.MissingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.AdminToken))
			b.JSONBody(matchers.Map{"status": matchers.S("shipped")})
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(false),
				"message": matchers.S("order not found"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("an unauthenticated status update").
		WithRequest("PUT", statusPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"status": matchers.S("shipped")})
		}).
		WillRespondWith(http.StatusUnauthorized, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"error": matchers.S("Unauthorized")})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStatusClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		shipped, err := client.UpdateStatus(ctx, pacttest.ExistingOrderID, "shipped", pacttest.AdminToken)
		if err != nil {
			return fmt.Errorf("ship order: %w", err)
		}
		if shipped == nil || shipped.Order == nil || shipped.Order.Status != "Shipped" {
			return fmt.Errorf("expected shipped order, got %+v", shipped)
		}

		if _, err := client.UpdateStatus(ctx, pacttest.ExistingOrderID, "banana", pacttest.AdminToken); err == nil {
			return fmt.Errorf("expected 400 for unknown status")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %d", apiErr.Status())
		}

		if _, err := client.UpdateStatus(ctx, pacttest.MissingOrderID, "shipped", pacttest.AdminToken); err == nil {
			return fmt.Errorf("expected 404 for missing order")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		if _, err := client.UpdateStatus(ctx, pacttest.ExistingOrderID, "shipped", ""); err == nil {
			return fmt.Errorf("expected 401 without a session")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusUnauthorized {
			return fmt.Errorf("expected 401, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type statusClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStatusClient(config pactconsumer.MockServerConfig) *statusClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &statusClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *statusClient) UpdateStatus(ctx context.Context, orderID, status, token string) (*orderEnvelope, error) {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/admin/orders/%s/status", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var envelope orderEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

func decodeAPIError(res *http.Response) error {
	var failure struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	_ = json.NewDecoder(res.Body).Decode(&failure)
	message := failure.Message
	if message == "" {
		message = failure.Err
	}
	return apiError{status: res.StatusCode, message: message}
}
